package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mapleship/regions-backend/internal/domain"
)

// errorResponse maps domain errors onto the HTTP surface. Validation
// failures keep their structured result so clients can show field-level
// messages.
func errorResponse(c *gin.Context, err error) {
	if verr, ok := domain.AsValidationError(err); ok {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "validation failed",
			"validation": verr.Result,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrVersionConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "stale region map version"})
	case errors.Is(err, domain.ErrOffline):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "region store unreachable"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
