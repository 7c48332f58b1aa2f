// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopworks/storefront/internal/services"
	"github.com/shopworks/storefront/internal/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP. Lost
// races become retryable 409s so clients know the request was sound
// and may simply be replayed.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrConcurrentModification):
		utils.RetryableConflictResponse(c, err.Error())
	case services.IsValidation(err):
		utils.BadRequestResponse(c, err.Error(), nil)
	case services.IsNotFound(err):
		utils.NotFoundResponse(c, err.Error())
	case services.IsConflict(err):
		utils.ConflictResponse(c, err.Error())
	default:
		// Storage and driver errors stay in the logs; clients get a
		// generic message.
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}

func principalFromContext(c *gin.Context) (uuid.UUID, bool) {
	principalStr, exists := utils.GetPrincipalFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	principalID, err := uuid.Parse(principalStr)
	if err != nil {
		return uuid.Nil, false
	}
	return principalID, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
