// Package testdb opens a migrated throwaway SQLite database for tests.
package testdb

import (
	"path/filepath"
	"testing"

	"shop-chatbot-be/internal/model"
	"shop-chatbot-be/pkg/database"

	"gorm.io/gorm"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.NewGormDB(database.GormConfig{
		Driver:       database.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "chat.db"),
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
