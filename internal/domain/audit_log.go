package domain

import "time"

// AuditLog Model. Rows are append-only: nothing in the application updates or
// deletes them once written.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`                      // Primary key
	UserID    *uint     `gorm:"index"`                           // Acting user, nil for anonymous/failed actors
	Action    string    `gorm:"not null"`                        // Action label from the closed set in internal/audit
	TableName string    `gorm:"not null"`                        // Table affected by the action
	RecordID  *uint     // Affected record, nil when not applicable
	IPAddress *string   // Client IP, nil when unknown
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime"` // Server-assigned creation time
}
