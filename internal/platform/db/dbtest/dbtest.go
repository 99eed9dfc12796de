// Package dbtest opens throwaway durable stores for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/platform/db"
)

// NewSQLite returns a migrated sqlite store in t's temp dir.
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := db.Open(sqlite.Open(path+"?_foreign_keys=on"), zap.NewNop().Sugar())
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(zap.NewNop().Sugar(), gdb))
	return gdb
}

// NewMock returns a gorm handle speaking the postgres dialect to sqlmock, for
// injecting store failures. Expectations are checked on cleanup.
func NewMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	gdb, err := db.Open(postgres.New(postgres.Config{Conn: sqlDB}), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb, mock
}
