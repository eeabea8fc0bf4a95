package db

import (
	"secure_wallet/internal/crypto"   // Field encryption
	"secure_wallet/internal/domain"   // Importing domain models
	"secure_wallet/internal/password" // Password hashing

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// EnsureDefaultAdmin creates an initial admin account when the users table is
// empty, so the admin surface is reachable on a fresh deployment. Credentials
// come from configuration; with no password configured nothing is seeded.
func EnsureDefaultAdmin(db *gorm.DB, cipher *crypto.Cipher, username, pass, secondary, email string, bcryptCost int) error {
	if pass == "" {
		return nil
	}
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	primaryHash, err := password.Hash(pass, bcryptCost)
	if err != nil {
		return err
	}
	secondaryHash, err := password.Hash(secondary, bcryptCost)
	if err != nil {
		return err
	}
	encryptedEmail, err := cipher.Encrypt(email)
	if err != nil {
		return err
	}
	admin := domain.User{
		Username:          username,
		Password:          primaryHash,
		Email:             encryptedEmail,
		SecondaryPassword: secondaryHash,
		IsAdmin:           true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logrus.WithField("username", username).Info("Seeded default admin account")
	return nil
}
