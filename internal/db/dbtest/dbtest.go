// Package dbtest opens throwaway in-memory SQLite stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"catalog_system/internal/config"
	"catalog_system/internal/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Open returns an empty, unmigrated store private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1)),
	}
	gdb, err := db.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// Migrated returns a store with the full schema and no rows.
func Migrated(t testing.TB) *gorm.DB {
	t.Helper()
	gdb := Open(t)
	require.NoError(t, db.Migrate(context.Background(), gdb))
	return gdb
}

// Seeded returns a migrated store holding the default data set.
func Seeded(t testing.TB) *gorm.DB {
	t.Helper()
	gdb := Migrated(t)
	require.NoError(t, db.Seed(context.Background(), gdb))
	return gdb
}
