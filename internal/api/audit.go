package api

import (
	"net/http" // HTTP status codes

	"secure_wallet/internal/audit"      // Audit logging
	"secure_wallet/internal/config"     // Policy toggles
	"secure_wallet/internal/middleware" // Identity helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// AuditLogRequest carries the secondary password gating the audit view
type AuditLogRequest struct {
	SecondaryPassword string `json:"secondary_password" binding:"required"` // Required per action
}

// ViewAuditLogsHandler returns audit entries visible to the actor,
// newest-first, behind the secondary-password gate. Admins see every entry;
// everyone else sees only their own. The admin flag is re-read from the
// database at query time rather than trusted from the session.
func ViewAuditLogsHandler(db *gorm.DB, auditLog *audit.Logger, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.GetIdentity(c) // Identity set by SessionAuthMiddleware
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AuditLogRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, ok := reauthenticate(c, db, auditLog, cfg, ident, req.SecondaryPassword)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid secondary password."})
			return
		}
		entries, err := auditLog.Query(user.ID, user.IsAdmin)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Audit query failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": entries})
	}
}
