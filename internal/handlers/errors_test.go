// internal/handlers/errors_test.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/shopworks/storefront/internal/services"
)

func performServiceError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/v1/test", nil)
	respondServiceError(c, err)
	return w
}

func TestRespondServiceErrorMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, performServiceError(&services.ValidationError{Message: "cart is empty"}).Code)
	assert.Equal(t, http.StatusNotFound, performServiceError(&services.NotFoundError{Resource: "cart"}).Code)
	assert.Equal(t, http.StatusConflict, performServiceError(&services.ConflictError{Message: "still referenced"}).Code)

	w := performServiceError(services.ErrConcurrentModification)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "0", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "CONCURRENT_MODIFICATION")
}

func TestRespondServiceErrorHidesStorageDetail(t *testing.T) {
	w := performServiceError(fmt.Errorf("database error: %w", errors.New("pq: connection to 10.0.0.5 refused")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "internal server error")
}
