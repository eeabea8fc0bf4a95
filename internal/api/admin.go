package api

import (
	"net/http" // HTTP status codes
	"slices"   // Slice helpers

	"secure_wallet/internal/audit"      // Audit logging
	"secure_wallet/internal/config"     // Policy toggles
	"secure_wallet/internal/crypto"     // Field decryption
	"secure_wallet/internal/middleware" // Identity helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// TableDump holds one table's schema-agnostic contents
type TableDump struct {
	Columns []string         `json:"columns"` // Column names in store order
	Rows    []map[string]any `json:"rows"`    // Row values keyed by column
}

// ListTablesHandler returns the names of every persisted table
func ListTablesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables, err := db.Migrator().GetTables()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tables"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tables": tables})
	}
}

// ViewDatabaseHandler dumps every table. Rows from the users table get the
// encrypted email column decrypted before leaving the handler; a decryption
// failure aborts the dump rather than returning garbage.
func ViewDatabaseHandler(db *gorm.DB, cipher *crypto.Cipher) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables, err := db.Migrator().GetTables()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tables"})
			return
		}
		database := make(map[string]TableDump, len(tables))
		for _, name := range tables {
			dump, err := dumpTable(db, name)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"table": name,
					"error": err.Error(),
				}).Error("Table dump failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dump database"})
				return
			}
			if name == "users" {
				if err := decryptEmailColumn(dump, cipher); err != nil {
					logrus.WithFields(logrus.Fields{
						"table": name,
						"error": err.Error(),
					}).Error("Email decryption failed")
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dump database"})
					return
				}
			}
			database[name] = *dump
		}
		c.JSON(http.StatusOK, gin.H{"database": database})
	}
}

// DropTableRequest carries the secondary password when the drop gate is on
type DropTableRequest struct {
	SecondaryPassword string `json:"secondary_password"` // Checked only when DropRequiresSecondary
}

// DropTableHandler irreversibly drops one table. The name is validated
// against the store's own catalog before it goes anywhere near a statement.
// The secondary-password gate applies only when DropRequiresSecondary is set
// (the reference applied only the admin check, so the toggle defaults to off).
func DropTableHandler(db *gorm.DB, auditLog *audit.Logger, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.GetIdentity(c) // Identity set by SessionAuthMiddleware
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		name := c.Param("name")
		tables, err := db.Migrator().GetTables()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tables"})
			return
		}
		// Only names the store itself reports are acceptable
		if !slices.Contains(tables, name) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown table"})
			return
		}
		if cfg.DropRequiresSecondary {
			var req DropTableRequest
			if err := c.ShouldBindJSON(&req); err != nil || req.SecondaryPassword == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Secondary password required"})
				return
			}
			if _, ok := reauthenticate(c, db, auditLog, cfg, ident, req.SecondaryPassword); !ok {
				c.JSON(http.StatusForbidden, gin.H{"error": "Invalid secondary password."})
				return
			}
		}
		// Drop inside an explicit commit/rollback boundary
		err = db.Transaction(func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(name)
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"table": name,
				"error": err.Error(),
			}).Error("Table drop failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete table"})
			return
		}
		auditLog.Append(&ident.UserID, audit.ActionDropTable, name, nil, clientIP(c))
		c.JSON(http.StatusOK, gin.H{"message": "Table '" + name + "' has been deleted successfully."})
	}
}

// dumpTable reads every column and row of one table. The name must already be
// validated against the store catalog; identifiers cannot be parameterized.
func dumpTable(db *gorm.DB, name string) (*TableDump, error) {
	rows, err := db.Raw("SELECT * FROM `" + name + "`").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	dump := &TableDump{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// Drivers return text columns as byte slices
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		dump.Rows = append(dump.Rows, row)
	}
	return dump, rows.Err()
}

// decryptEmailColumn replaces the encrypted email blob with its plaintext in
// every row of a users dump.
func decryptEmailColumn(dump *TableDump, cipher *crypto.Cipher) error {
	for _, row := range dump.Rows {
		blob, ok := row["email"].(string)
		if !ok {
			continue
		}
		email, err := cipher.Decrypt(blob)
		if err != nil {
			return err
		}
		row["email"] = email
	}
	return nil
}
