package middleware

import (
	"net/http" // HTTP status codes

	"secure_wallet/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// AdminOnlyMiddleware re-checks the admin flag in the database on each
// request, so a revoked privilege takes effect without waiting for the
// session to expire. Authorization failure is a plain response, never a
// redirect, to keep "not logged in" and "insufficient privilege" distinct.
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := GetIdentity(c) // Identity set by SessionAuthMiddleware
		if ident == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, ident.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not authorized to perform this action."})
			return
		}
		// Check the admin flag
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not authorized to perform this action."})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
