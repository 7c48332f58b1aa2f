// internal/services/errors.go
package services

import "errors"

// ValidationError reports invalid caller input (unknown cart, empty
// cart, unknown product, bad field values). Not retryable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError reports a read of a record that does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func notFoundErrorf(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ConflictError reports a deletion blocked by referential dependents.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ErrConcurrentModification is returned when an operation lost a race
// against a concurrent writer (duplicate cart-item insert, order
// placement against a cart that was just consumed). Callers may retry
// the whole operation from scratch.
var ErrConcurrentModification = errors.New("lost a race against a concurrent update, retry")

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
