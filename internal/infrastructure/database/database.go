package database

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/lotus-pos/internal/config"
	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewDB opens the configured database: a local or hosted PostgreSQL instance,
// or a local SQLite file.
func NewDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	switch cfg.Driver {
	case DriverPostgres, "":
		return NewPostgresDB(cfg, gormCfg)
	case DriverSQLite:
		return NewSQLiteDB(cfg.SQLitePath, gormCfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q (use postgres or sqlite)", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // hosted poolers reject prepared statements
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// NewSQLiteDB opens (or creates) a SQLite database at path. Use ":memory:"
// for a throwaway database.
func NewSQLiteDB(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// sqlite allows one writer at a time
	sqlDB.SetMaxOpenConns(1)

	log.Printf("Successfully opened SQLite database %s", path)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// People
		&entity.Employee{},
		&entity.Customer{},

		// Catalog
		&entity.RestaurantTable{},
		&entity.FoodItem{},
		&entity.BuffetPackage{},

		// Transaction entities
		&entity.Order{},
		&entity.OrderItem{},
		&entity.TicketLedgerEntry{},
		&entity.Invoice{},
		&entity.InvoiceItem{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := addGeneratedTotal(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// addGeneratedTotal adds invoice_items.total_price as a generated column the
// first time it runs. SQLite can only add VIRTUAL generated columns to an
// existing table; Postgres only supports STORED ones.
func addGeneratedTotal(db *gorm.DB) error {
	if db.Migrator().HasColumn(&entity.InvoiceItem{}, "total_price") {
		return nil
	}

	storage := "STORED"
	if db.Dialector.Name() == DriverSQLite {
		storage = "VIRTUAL"
	}
	ddl := "ALTER TABLE invoice_items ADD COLUMN total_price numeric(12,2) GENERATED ALWAYS AS (quantity * unit_price) " + storage
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("add invoice_items.total_price: %w", err)
	}
	log.Println("Added generated column invoice_items.total_price")
	return nil
}
