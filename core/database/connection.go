package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/AzielCF/az-console/core/config"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the gorm connection described by cfg.Database.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(postgresDSN(cfg))
	case "sqlite", "":
		dialector = sqlite.Open(sqliteDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	logLevel := logger.Warn
	if cfg.App.Debug {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database (%s): %w", cfg.Database.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB instance: %w", err)
	}
	tunePool(sqlDB, cfg.Database.Driver)

	return db, nil
}

// OpenSQL opens a plain database/sql handle for the raw SQL repository and
// returns the driver name it was opened with.
func OpenSQL(cfg *config.Config) (*sql.DB, string, error) {
	var driver, dsn string
	switch cfg.Database.Driver {
	case "postgres":
		driver, dsn = "postgres", postgresDSN(cfg)
	case "sqlite", "":
		driver, dsn = "sqlite3", sqliteDSN(cfg)
	default:
		return nil, "", fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database (%s): %w", cfg.Database.Name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to ping database (%s): %w", cfg.Database.Name, err)
	}
	tunePool(db, cfg.Database.Driver)
	return db, driver, nil
}

func postgresDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
	)
}

func sqliteDSN(cfg *config.Config) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", cfg.Database.Name)
}

func tunePool(db *sql.DB, driver string) {
	if driver == "sqlite" || driver == "" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(100)
		db.SetMaxIdleConns(10)
	}
	db.SetConnMaxLifetime(time.Hour)
}
