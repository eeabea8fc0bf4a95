// Package audit maintains the append-only record of security-relevant events.
// Entries are immutable once written; nothing here updates or deletes rows.
package audit

import (
	"time"

	"secure_wallet/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Action labels form a closed set so the log stays machine-queryable. Free
// text is not accepted at the append API.
const (
	ActionUserLoggedIn      = "USER LOGGED IN"
	ActionFailedLogin       = "FAILED LOGIN ATTEMPT"
	ActionFailedReauth      = "FAILED REAUTH ATTEMPT"
	ActionCreateTransaction = "CREATE TRANSACTION"
	ActionDropTable         = "DROP TABLE"
)

// Entry is the projection returned by Query: the audit row joined with the
// acting user's name. Username is nil when the actor was anonymous or the
// user row no longer exists.
type Entry struct {
	ID        uint      `json:"id"`
	Username  *string   `json:"username"`
	Action    string    `json:"action"`
	TableName string    `json:"table_name"`
	RecordID  *uint     `json:"record_id"`
	IPAddress *string   `json:"ip_address"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger appends and queries audit entries.
type Logger struct {
	db *gorm.DB
}

// NewLogger constructs a Logger over the given store handle.
func NewLogger(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Append writes one immutable entry with a server-assigned timestamp. It is
// best-effort: a failed insert is logged and never blocks the operation it
// accompanies, so no error is returned.
func (l *Logger) Append(userID *uint, action, tableName string, recordID *uint, ipAddress *string) {
	entry := domain.AuditLog{
		UserID:    userID,
		Action:    action,
		TableName: tableName,
		RecordID:  recordID,
		IPAddress: ipAddress,
	}
	if err := l.db.Create(&entry).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"action": action,
			"table":  tableName,
			"error":  err.Error(),
		}).Error("Failed to append audit entry")
	}
}

// Query returns entries visible to the actor, newest-first. An admin sees
// every entry; anyone else sees only entries keyed to their own user ID. The
// username comes from a left join so entries survive user deletion.
func (l *Logger) Query(actorID uint, isAdmin bool) ([]Entry, error) {
	q := l.db.Table("audit_logs").
		Select("audit_logs.id, users.username, audit_logs.action, audit_logs.table_name, audit_logs.record_id, audit_logs.ip_address, audit_logs.timestamp").
		Joins("LEFT JOIN users ON audit_logs.user_id = users.id").
		Order("audit_logs.timestamp DESC, audit_logs.id DESC")
	if !isAdmin {
		q = q.Where("audit_logs.user_id = ?", actorID)
	}
	var entries []Entry
	if err := q.Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
