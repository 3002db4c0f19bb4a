package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Wikid82/phishwatch/internal/logger"
	"github.com/Wikid82/phishwatch/internal/models"
)

// sqliteParams enables WAL and makes concurrent writers wait on the lock instead of failing.
const sqliteParams = "_journal_mode=WAL&_busy_timeout=5000"

// Connect bootstraps a SQLite database using the provided filesystem path or DSN.
func Connect(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: newLogger(),
		// users are owned by the identity provider, so risk_checks carries no FK to them
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables owned by this service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RiskCheck{},
		&models.Notification{},
		&models.NotificationRead{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func dsn(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath + "&" + sqliteParams
	}
	return dbPath + "?" + sqliteParams
}

// newLogger routes gorm's warnings and slow queries through logrus.
func newLogger() gormlogger.Interface {
	return gormlogger.New(logger.Log(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
