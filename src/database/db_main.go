package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"spotnet/src/database/migrations"
	"spotnet/src/model"
)

// MainDB is the primary read/write database connection used by the application.
var MainDB *gorm.DB

// InitMainDB initializes the main (read/write) database connection and creates the schema.
// This should be called once at application startup (e.g. in main()).
func InitMainDB() error {
	config := GetConfig()

	db, err := Open(config)
	if err != nil {
		return err
	}

	// Assign to the global variable only after a successful connection.
	MainDB = db

	logrus.WithField("driver", config.Driver).Info("[database] MainDB connection established")

	if err := AutoMigrate(MainDB); err != nil {
		return err
	}

	logrus.Info("[database] MainDB schema ready")

	return nil
}

// Open connects to the configured database and tunes the connection pool.
func Open(config Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case DriverPostgres:
		dialector = postgres.Open(config.DatabaseURLMain)
	case DriverSQLite:
		dialector = sqlite.Open(config.DatabaseURLMain)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return db, nil
}

// AutoMigrate creates or updates the tables of every persisted record.
func AutoMigrate(db *gorm.DB) error {
	// The status enum type must exist before AutoMigrate references it.
	if err := migrations.PrepareStatusEnum(db); err != nil {
		return fmt.Errorf("failed to prepare status enum: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Position{},
		&model.AirDrop{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate MainDB: %w", err)
	}

	return nil
}
