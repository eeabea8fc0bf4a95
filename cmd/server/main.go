package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging
	"time"    // Session lifetime

	"secure_wallet/internal/api"        // Custom package for API handlers
	"secure_wallet/internal/audit"      // Custom package for audit logging
	"secure_wallet/internal/config"     // Custom package for configuration
	"secure_wallet/internal/crypto"     // Custom package for field encryption
	"secure_wallet/internal/db"         // Custom package for database setup
	"secure_wallet/internal/middleware" // Custom package for middleware
	"secure_wallet/internal/session"    // Custom package for sessions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	gormDB, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Load or generate the field-encryption key. Losing this file invalidates
	// every stored email.
	key, err := crypto.LoadOrCreateKey(cfg.KeyFile)
	if err != nil {
		logrus.Fatalf("failed to load encryption key: %v", err)
	}
	cipher, err := crypto.NewCipher(key)
	if err != nil {
		logrus.Fatalf("failed to initialize cipher: %v", err)
	}

	// Session manager with an absolute lifetime per login
	sessions := session.NewManager(cfg.JWTSecret, time.Duration(cfg.SessionTTLMinutes)*time.Minute, redisClient)
	auditLog := audit.NewLogger(gormDB)

	// Seed the initial admin account on an empty users table
	if err := db.EnsureDefaultAdmin(gormDB, cipher, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminSecondary, cfg.AdminEmail, cfg.BcryptCost); err != nil {
		logrus.Fatalf("failed to seed admin account: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Public routes
	r.POST("/register", api.RegisterHandler(gormDB, cipher, cfg))  // Registration endpoint
	r.POST("/login", api.LoginHandler(gormDB, sessions, auditLog)) // Login endpoint

	// Authenticated routes (valid session required)
	authGroup := r.Group("/")
	authGroup.Use(middleware.SessionAuthMiddleware(sessions))
	authGroup.POST("/logout", api.LogoutHandler(sessions))                                            // Logout endpoint
	authGroup.GET("/profile", api.ProfileHandler(gormDB, cipher))                                     // Profile endpoint
	authGroup.POST("/transactions", api.CreateTransactionHandler(gormDB, redisClient, auditLog, cfg)) // Create transaction endpoint
	authGroup.GET("/transactions", api.ListTransactionsHandler(gormDB, redisClient))                  // Transaction listing endpoint
	authGroup.POST("/audit-logs", api.ViewAuditLogsHandler(gormDB, auditLog, cfg))                    // Audit log view endpoint

	// Admin routes (valid session + admin flag)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.SessionAuthMiddleware(sessions), middleware.AdminOnlyMiddleware(gormDB))
	adminGroup.GET("/tables", api.ListTablesHandler(gormDB))                        // Table name listing endpoint
	adminGroup.GET("/database", api.ViewDatabaseHandler(gormDB, cipher))            // Full database dump endpoint
	adminGroup.DELETE("/tables/:name", api.DropTableHandler(gormDB, auditLog, cfg)) // Table drop endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
