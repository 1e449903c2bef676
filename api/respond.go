package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/gin-gonic/gin"
)

// actorFrom reads the identity headers set by the auth middleware upstream.
func actorFrom(c *gin.Context) domain.Actor {
	userID, _ := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
	agencyID, _ := strconv.ParseInt(c.GetHeader("X-Agency-ID"), 10, 64)
	return domain.Actor{
		UserID:   userID,
		Role:     domain.Role(c.GetHeader("X-User-Role")),
		AgencyID: agencyID,
	}
}

func respondError(c *gin.Context, err error) {
	var invalid *domain.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "invalid transition",
			"current":   invalid.Current,
			"requested": invalid.Requested,
			"role":      string(invalid.Role),
		})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
