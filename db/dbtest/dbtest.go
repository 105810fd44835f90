// Package dbtest provides isolated, migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ActivityAdmin/db"
)

// New returns a migrated in-memory SQLite database private to the calling test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := db.OpenSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, db.AutoMigrate(gdb))
	return gdb
}

// NewSeeded is New plus the built-in block types.
func NewSeeded(t testing.TB) *gorm.DB {
	t.Helper()

	gdb := New(t)
	require.NoError(t, db.SeedBlockTypes(context.Background(), gdb))
	return gdb
}
