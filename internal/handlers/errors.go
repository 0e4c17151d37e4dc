package handlers

import (
	"errors"
	"log"
	"net/http"

	"taskhub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError translates service errors into HTTP responses. Anything
// unrecognized is logged and reported as a generic 500 so internals do
// not leak to clients.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidCredentials.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
