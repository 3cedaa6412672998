// Package testdb opens throwaway in-memory databases with the catalog schema.
package testdb

import (
	"catalog/domain"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DriverName is the database/sql driver behind the returned connections.
const DriverName = "sqlite3"

// New returns a migrated in-memory database that lives as long as the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.AccessToken{},
		&domain.Category{},
		&domain.Product{},
		&domain.CategoryProduct{},
	))

	return db
}
