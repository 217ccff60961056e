package testutil

import (
	"fmt"
	"testing"

	"hospital-admissions/internal/config"
	"hospital-admissions/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory sqlite store with every table migrated
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:    config.DriverSQLite,
			SQLiteDSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		},
		Server: config.ServerConfig{GinMode: "release"},
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
