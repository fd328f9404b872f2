package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/hornossanz/shift-planner/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a looked-up row does not exist
var ErrNotFound = errors.New("record not found")

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	KeyID           uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date            string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount    int    `gorm:"default:0" json:"request_count"`
	TotalShifts     int    `gorm:"default:0" json:"total_shifts"`
	TotalCandidates int    `gorm:"default:0" json:"total_candidates"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Options selects and tunes the database connection
type Options struct {
	DatabaseURL string // postgres DSN; sqlite is used when empty
	DataPath    string // sqlite file, ":memory:" for tests
	LogLevel    logger.LogLevel
}

// InitDB opens postgres when a DSN is configured, sqlite otherwise, and migrates the schema
func InitDB(opts Options) (*gorm.DB, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Error
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(opts.LogLevel)}

	var db *gorm.DB
	var err error
	if opts.DatabaseURL != "" {
		cfg.PrepareStmt = false
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  opts.DatabaseURL,
			PreferSimpleProtocol: true,
		}), cfg)
	} else {
		path := opts.DataPath
		if path == "" {
			path = "horarios.db"
		}
		db, err = gorm.Open(sqlite.Open(path), cfg)
		if err == nil && path == ":memory:" {
			// every pooled connection would otherwise get its own empty database
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&APIKey{}, &APIUsage{}, &MasterUser{},
		&models.Store{}, &models.Employee{}, &models.Holiday{}, &models.ScheduleRecord{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
