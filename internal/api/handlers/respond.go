package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pranay9392/meity-audit-v2/internal/api/middleware"
	"github.com/Pranay9392/meity-audit-v2/internal/services"
	"github.com/Pranay9392/meity-audit-v2/internal/workflow"
)

// respondError maps domain errors onto HTTP status codes. Authorization
// failures are 403, malformed or impossible inputs 400, missing entities 404
// and lost write races 409. Anything unrecognized is logged and reported as a
// plain 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var authErr *workflow.AuthorizationError
	var transErr *workflow.InvalidTransitionError
	var valErr *services.ValidationError

	switch {
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"error": authErr.Error()})
	case errors.As(err, &transErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": transErr.Error()})
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Error()})
	case errors.Is(err, services.ErrAuditRequestNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConcurrencyConflict),
		errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAccountLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		middleware.GetRequestLogger(c).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
