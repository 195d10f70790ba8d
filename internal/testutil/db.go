// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"garden-care-backend/config"
	"garden-care-backend/internal/db"
)

// NewDB returns a migrated, private in-memory SQLite database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Default().Database
	cfg.DSN = "file::memory:"
	// A second connection would open a second, empty in-memory database.
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1

	gormDB, err := db.Init(&cfg, zerolog.Nop())
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }
