package testdb

import (
	"testing"

	"fintrack/config"
	"fintrack/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// New opens a migrated, private in-memory SQLite database. A single
// connection keeps the shared-cache database alive and serializes
// transactions the way a real server would.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
