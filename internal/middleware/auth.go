package middleware

import (
	"net/http"
	"strings"

	"flashcards/internal/models"
	"flashcards/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// claimsKey is the gin context key the authenticated identity is stored under.
const claimsKey = "claims"

// ClaimsFrom returns the identity attached by Authenticate, if any.
func ClaimsFrom(c *gin.Context) (*models.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*models.Claims)
	return claims, ok
}

// Authenticate creates a Gin middleware for bearer-token authentication.
// Verification failures are not distinguished to the client: signature
// mismatch, expiry and malformed payloads all yield the same 401.
func Authenticate(tokens *service.TokenManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization header"})
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			logger.Debug("Token verification failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin permits only identities whose token carries admin=true. It is
// a pure function of the claims and never re-queries the store, so an admin
// demoted mid-session keeps access until the token expires.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}
		if !claims.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "User is not an admin"})
			c.Abort()
			return
		}
		c.Next()
	}
}
