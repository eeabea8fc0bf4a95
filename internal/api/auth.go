package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions

	"secure_wallet/internal/audit"      // Audit logging
	"secure_wallet/internal/config"     // Configuration
	"secure_wallet/internal/crypto"     // Field encryption
	"secure_wallet/internal/domain"     // Importing domain models
	"secure_wallet/internal/middleware" // Identity helpers
	"secure_wallet/internal/password"   // Password policy and hashing
	"secure_wallet/internal/session"    // Session manager

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request and Response structs
type RegisterRequest struct {
	Username          string `json:"username" binding:"required"`           // Username must be provided
	Password          string `json:"password" binding:"required"`           // Primary password must be provided
	Email             string `json:"email" binding:"required"`              // Email must be provided
	SecondaryPassword string `json:"secondary_password" binding:"required"` // Secondary password must be provided
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string `json:"token"` // Session token
}

// usernameRe restricts usernames to alphanumerics so caller input never
// carries markup or query metacharacters.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// dummyHash is a well-formed bcrypt hash matching no issued password. Login
// verifies against it when the username is unknown so both failure paths stay
// in the same timing class.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// RegisterHandler creates a user with hashed credentials and an encrypted email
func RegisterHandler(db *gorm.DB, cipher *crypto.Cipher, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Neutralize the username before it reaches any query
		if !usernameRe.MatchString(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be alphanumeric only"})
			return
		}
		// Policy violations are reported inline; nothing has been written yet
		if err := password.ValidatePolicy(req.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := password.ValidateSecondaryPolicy(req.SecondaryPassword); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Hash both passwords independently
		primaryHash, err := password.Hash(req.Password, cfg.BcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		secondaryHash, err := password.Hash(req.SecondaryPassword, cfg.BcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// The email is never stored in plaintext
		encryptedEmail, err := cipher.Encrypt(req.Email)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to encrypt email")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		user := domain.User{
			Username:          req.Username, // Stored case-sensitively
			Password:          primaryHash,
			Email:             encryptedEmail,
			SecondaryPassword: secondaryHash,
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Registration successful! Please log in."})
	}
}

// LoginHandler verifies primary credentials and issues a session token. Both
// failure modes (unknown username, wrong password) return the same generic
// response and append one FAILED LOGIN ATTEMPT entry with a null user.
func LoginHandler(db *gorm.DB, sessions *session.Manager, auditLog *audit.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user by exact, case-sensitive username
		lookupErr := db.Where("username = ?", req.Username).First(&user).Error
		storedHash := dummyHash
		if lookupErr == nil {
			storedHash = user.Password
		}
		// Verify unconditionally so unknown usernames burn the same time as
		// wrong passwords
		verified := password.Verify(req.Password, storedHash)
		if lookupErr != nil || !verified {
			auditLog.Append(nil, audit.ActionFailedLogin, "users", nil, clientIP(c))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials. Try again."})
			return
		}
		// Issue a session carrying the user ID and admin flag
		token, err := sessions.Issue(c.Request.Context(), user.ID, user.IsAdmin)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Failed to issue session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		auditLog.Append(&user.ID, audit.ActionUserLoggedIn, "users", nil, clientIP(c))
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// LogoutHandler revokes the session record. Logging out an already
// invalidated session succeeds as well.
func LogoutHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.GetIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err := sessions.Revoke(c.Request.Context(), ident.TokenID); err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to revoke session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// ProfileHandler returns the authenticated user's profile with the email
// decrypted. A decryption failure is a hard error, never garbage plaintext.
func ProfileHandler(db *gorm.DB, cipher *crypto.Cipher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.GetIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.First(&user, ident.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		email, err := cipher.Decrypt(user.Email)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Failed to decrypt email")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Profile unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"username": user.Username,
			"email":    email,
			"is_admin": user.IsAdmin,
		})
	}
}

// clientIP returns the request's client address, nil when unknown.
func clientIP(c *gin.Context) *string {
	ip := c.ClientIP()
	if ip == "" {
		return nil
	}
	return &ip
}
