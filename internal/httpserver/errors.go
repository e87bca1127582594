package httpserver

import (
	"errors"
	"net/http"

	"moving-broker/internal/domain"

	"github.com/gin-gonic/gin"
)

// writeError maps domain sentinels to HTTP statuses. Domain-rule
// violations are client errors with the sentinel's message; anything
// unknown is a 500 with a generic body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrMoverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrActiveRequestExists),
		errors.Is(err, domain.ErrDuplicateTarget),
		errors.Is(err, domain.ErrTargetLimitExceeded),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidPageSize),
		errors.Is(err, domain.ErrEmptyFilter),
		errors.Is(err, domain.ErrInvalidCursor),
		errors.Is(err, domain.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
