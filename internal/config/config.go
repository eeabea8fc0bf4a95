package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	JWTSecret  string // JWT secret key
	RedisAddr  string // Redis server address
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment

	KeyFile           string // Path to the field-encryption key file
	SessionTTLMinutes int    // Absolute session lifetime in minutes
	BcryptCost        int    // Bcrypt cost factor for password hashing

	AdminUsername  string // Seed admin username
	AdminPassword  string // Seed admin password; empty disables seeding
	AdminSecondary string // Seed admin secondary password
	AdminEmail     string // Seed admin email

	// Policy toggles. Both default to off, matching the reference behavior;
	// turning them on audits failed reauthentication attempts and requires the
	// secondary password before dropping a table.
	AuditReauthFailures   bool
	DropRequiresSecondary bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    os.Getenv("APP_PORT"),          // Application port
		DBUser:     os.Getenv("DB_USER"),           // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:     os.Getenv("DB_HOST"),           // Database host
		DBPort:     os.Getenv("DB_PORT"),           // Database port
		DBName:     os.Getenv("DB_NAME"),           // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:  os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:    redisDB,                        // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true", // Is production environment

		KeyFile:           envOrDefault("ENCRYPTION_KEY_FILE", "encryption_key.bin"), // Key file path
		SessionTTLMinutes: envIntOrDefault("SESSION_TTL_MINUTES", 2),                 // Session lifetime
		BcryptCost:        envIntOrDefault("BCRYPT_COST", 0),                         // 0 means bcrypt.DefaultCost

		AdminUsername:  envOrDefault("ADMIN_USERNAME", "admin"), // Seed admin username
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),             // Empty disables seeding
		AdminSecondary: os.Getenv("ADMIN_SECONDARY_PASSWORD"),   // Seed admin secondary password
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),                // Seed admin email

		AuditReauthFailures:   os.Getenv("AUDIT_REAUTH_FAILURES") == "true",   // Audit failed reauth attempts
		DropRequiresSecondary: os.Getenv("DROP_REQUIRES_SECONDARY") == "true", // Secondary gate on table drops
	}
}

// envOrDefault returns the environment value or a fallback when unset
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOrDefault returns the environment value as int or a fallback when unset/invalid
func envIntOrDefault(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
