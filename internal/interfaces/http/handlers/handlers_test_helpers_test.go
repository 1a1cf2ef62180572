package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"clickpulse.backend/internal/interfaces/http/middleware"
)

// withCaller injects an authenticated caller identity the way
// AuthMiddleware would.
func withCaller(callerID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CallerIDKey, callerID)
		c.Next()
	}
}
