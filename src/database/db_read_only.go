package database

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"gorm.io/gorm"

	"spotnet/src/model"
)

// ReadOnlyDB is the connection used by listing commands.
// The database user for this connection should have SELECT-only permissions.
var ReadOnlyDB *gorm.DB

// InitReadOnlyDB initializes the read-only database connection.
// It does not run any migrations. When DATABASE_URL_READ_ONLY is empty the main URL is used.
func InitReadOnlyDB() error {
	config := GetConfig()
	if config.DatabaseURLReadOnly != "" {
		config.DatabaseURLMain = config.DatabaseURLReadOnly
	}

	db, err := Open(config)
	if err != nil {
		return err
	}

	if err := CheckReadable(db); err != nil {
		return err
	}

	ReadOnlyDB = db

	return nil
}

// CheckReadable pings the connection and makes sure the position table can be read.
func CheckReadable(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from ReadOnlyDB: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping ReadOnlyDB: %w", err)
	}

	var count int64
	if err := db.Model(&model.Position{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to access position table: %w", err)
	}

	logrus.WithFields(map[string]interface{}{
		"dialect":   db.Dialector.Name(),
		"positions": count,
	}).Info("[ReadOnlyDB] connected, position table reachable")

	return nil
}
