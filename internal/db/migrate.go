package db

import (
	"fmt" // Error wrapping

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // Postgres driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM log levels

	"trusty_wallet/internal/config" // Application configuration
	"trusty_wallet/internal/domain" // Importing domain models
)

// Supported DB_DRIVER values
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory" // No SQL connection; served by the in-memory store
)

// Dialector selects the gorm dialector for driver
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// OpenDSN opens a connection for driver and dsn
func OpenDSN(driver, dsn string, quiet bool) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{}
	if quiet {
		gcfg.Logger = logger.Default.LogMode(logger.Silent) // Keep SQL out of production logs
	}
	db, err := gorm.Open(dialector, gcfg) // Open a connection to the database
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// Open opens the connection described by cfg
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case DriverMySQL:
		return OpenDSN(DriverMySQL, cfg.MySQLDSN(), cfg.IsProd)
	case DriverPostgres:
		return OpenDSN(DriverPostgres, cfg.PostgresDSN(), cfg.IsProd)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err := db.AutoMigrate(&domain.User{}, &domain.Wallet{}, &domain.Credit{}, &domain.Transaction{})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
