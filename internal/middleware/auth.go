package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"secure_wallet/internal/session" // Session manager

	"github.com/gin-gonic/gin" // Gin web framework
)

// IdentityKey is the gin context key holding the authenticated identity.
const IdentityKey = "identity"

// SessionAuthMiddleware validates the bearer session token and stores the
// resulting identity in the request context. Expiry is evaluated here, on
// access, against wall-clock time.
func SessionAuthMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		ident, err := sessions.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			// Expired, revoked, and tampered tokens all get the same answer
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired. Please log in again."})
			return
		}
		c.Set(IdentityKey, ident) // Store identity in context
		c.Next()                  // Proceed to the next handler
	}
}

// GetIdentity returns the identity stored by SessionAuthMiddleware, or nil if
// the request is unauthenticated.
func GetIdentity(c *gin.Context) *session.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	ident, _ := v.(*session.Identity)
	return ident
}
