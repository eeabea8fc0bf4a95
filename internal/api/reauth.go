package api

import (
	"secure_wallet/internal/audit"    // Audit logging
	"secure_wallet/internal/config"   // Policy toggles
	"secure_wallet/internal/domain"   // Importing domain models
	"secure_wallet/internal/password" // Password verification
	"secure_wallet/internal/session"  // Session identity

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// reauthenticate verifies the secondary password for the acting identity and
// returns the freshly loaded user row on success. A valid browser session is
// not enough for sensitive mutations; the caller must hold the second secret
// per action. When AuditReauthFailures is enabled, a failed attempt appends a
// FAILED REAUTH ATTEMPT entry keyed to the user (the reference behavior left
// these unlogged, so the toggle defaults to off).
func reauthenticate(c *gin.Context, db *gorm.DB, auditLog *audit.Logger, cfg *config.Config, ident *session.Identity, secondary string) (*domain.User, bool) {
	var user domain.User
	if err := db.First(&user, ident.UserID).Error; err != nil {
		return nil, false
	}
	if !password.Verify(secondary, user.SecondaryPassword) {
		if cfg.AuditReauthFailures {
			auditLog.Append(&ident.UserID, audit.ActionFailedReauth, "users", nil, clientIP(c))
		}
		return nil, false
	}
	return &user, true
}
