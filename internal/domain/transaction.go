package domain

// Transaction Model
type Transaction struct {
	ID     uint   `gorm:"primaryKey"`     // Primary key
	UserID uint   `gorm:"index;not null"` // Foreign key to the owning User
	Amount string `gorm:"not null"`       // Opaque amount value, no currency semantics
}
