package api

import (
	"net/http" // HTTP status codes

	"secure_wallet/internal/audit"      // Audit logging
	"secure_wallet/internal/config"     // Policy toggles
	"secure_wallet/internal/domain"     // Importing domain models
	"secure_wallet/internal/middleware" // Identity helpers
	"secure_wallet/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateTransactionRequest represents a transaction creation request
type CreateTransactionRequest struct {
	Amount            string `json:"amount" binding:"required"`             // Opaque amount, presence only
	SecondaryPassword string `json:"secondary_password" binding:"required"` // Required per action
}

// CreateTransactionHandler writes one amount-tagged record for the acting
// user. The secondary-password gate runs first: on failure nothing is written
// and no transaction audit entry is produced.
func CreateTransactionHandler(db *gorm.DB, rdb *redis.Client, auditLog *audit.Logger, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.GetIdentity(c) // Identity set by SessionAuthMiddleware
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Mandatory, synchronous re-authentication before the mutation
		if _, ok := reauthenticate(c, db, auditLog, cfg, ident, req.SecondaryPassword); !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid secondary password."})
			return
		}
		t := domain.Transaction{UserID: ident.UserID, Amount: req.Amount}
		// The write runs inside an explicit commit/rollback boundary
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&t).Error
		})
		if err != nil {
			// Raw store error text stays in the log, never in the response
			logrus.WithFields(logrus.Fields{
				"user_id": ident.UserID,
				"error":   err.Error(),
			}).Error("Transaction creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
			return
		}
		auditLog.Append(&ident.UserID, audit.ActionCreateTransaction, "transactions", &t.ID, clientIP(c))
		// Invalidate the cached listing for this user
		_ = utils.DeleteCache(c.Request.Context(), rdb, utils.TransactionsKey(ident.UserID))
		c.JSON(http.StatusCreated, gin.H{"message": "Transaction created successfully.", "transaction": t})
	}
}

// ListTransactionsHandler returns the acting user's transactions newest-first,
// served from the Redis cache when fresh.
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.GetIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.TransactionsKey(ident.UserID)
		var cached []domain.Transaction
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"transactions": cached, "cached": true})
			return
		}
		var transactions []domain.Transaction
		if err := db.Where("user_id = ?", ident.UserID).Order("id desc").Find(&transactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, transactions, utils.TransactionsCacheTTL)
		c.JSON(http.StatusOK, gin.H{"transactions": transactions, "cached": false})
	}
}
