// Package gorm implements the stub backend repositories on top of gorm.
package gorm

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	stdgorm "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to a postgres URL, or treats dsn as a sqlite file name.
func Open(dsn string) (*stdgorm.DB, error) {
	config := &stdgorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return stdgorm.Open(postgres.Open(dsn), config)
	}

	db, err := stdgorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// every pooled connection would otherwise get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates every table the repositories use.
func Migrate(db *stdgorm.DB) error {
	return db.AutoMigrate(&userRow{}, &projectRow{}, &taskRow{}, &watchRow{})
}
