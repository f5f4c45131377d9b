package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/config"
)

// DB is assigned exactly once by Connect at process start. Route setup reads
// it; everything else receives the handle through constructors.
var DB *gorm.DB

// Connect opens the MySQL pool and applies the pool limits the deployment
// expects: at most 10 connections, 10s dial timeout.
func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=10s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect to MySQL: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("❌ Failed to access underlying sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("❌ MySQL ping failed: %v", err)
	}

	log.Printf("✅ Connected to MySQL database %q on %s:%s", cfg.DBName, cfg.DBHost, cfg.DBPort)

	DB = db
	return db
}

// Close releases the pool. Called on shutdown signal from main.
func Close() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("⚠️ Error closing database pool: %v", err)
	}
}
