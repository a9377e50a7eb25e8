// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/infrastructure/database"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/config"
)

// New returns a fresh database with every model migrated. It is closed
// when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := database.Open(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
