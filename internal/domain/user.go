package domain

// User Model
type User struct {
	ID                uint   `gorm:"primaryKey"`      // Primary key
	Username          string `gorm:"unique;not null"` // Unique username (case-sensitive)
	Password          string `gorm:"not null"`        // Bcrypt hash of the primary password
	Email             string `gorm:"not null"`        // Email, stored as an encrypted blob
	SecondaryPassword string `gorm:"not null"`        // Bcrypt hash of the secondary password
	IsAdmin           bool   `gorm:"default:false"`   // Admin flag
}
