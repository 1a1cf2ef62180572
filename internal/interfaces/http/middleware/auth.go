package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"clickpulse.backend/pkg/jwt"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// CallerIDKey is the context key for the caller identity
	CallerIDKey = "callerId"
	// CallerEmailKey is the context key for the caller email
	CallerEmailKey = "callerEmail"
)

// AuthMiddleware authenticates dashboard callers by bearer token. The
// token is minted upstream; we only verify it and extract the caller
// identity.
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token has expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set(CallerIDKey, claims.CallerID)
		c.Set(CallerEmailKey, claims.Email)

		c.Next()
	}
}

// GetCallerID gets the authenticated caller identity from context
func GetCallerID(c *gin.Context) (uuid.UUID, bool) {
	callerID, exists := c.Get(CallerIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := callerID.(uuid.UUID)
	return id, ok
}
