package helper_test

import (
	"path/filepath"
	"testing"

	"todoapi/config"
	"todoapi/helper"
	"todoapi/infras/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.DB.Driver = config.DBDriverSQLite
	cfg.DB.MigrationTable = "schema_migrations"
	cfg.DB.SQLite.Path = filepath.Join(t.TempDir(), "todos.db")

	return cfg
}

func tableExists(t *testing.T, path, table string) bool {
	t.Helper()

	conn, err := database.OpenSQLite(path)
	require.NoError(t, err)

	defer conn.Close()

	var count int
	require.NoError(t, conn.Read.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table))

	return count == 1
}

func TestRunner_SQLite(t *testing.T) {
	cfg := sqliteConfig(t)

	require.NoError(t, helper.Up(cfg))
	assert.True(t, tableExists(t, cfg.DB.SQLite.Path, "todos"))
	assert.True(t, tableExists(t, cfg.DB.SQLite.Path, "attachments"))

	require.NoError(t, helper.Up(cfg), "second up is a no-op")

	require.NoError(t, helper.Runner(cfg, helper.ActionDown))
	assert.True(t, tableExists(t, cfg.DB.SQLite.Path, "todos"))
	assert.False(t, tableExists(t, cfg.DB.SQLite.Path, "attachments"))

	require.NoError(t, helper.Runner(cfg, helper.ActionStepUp))
	assert.True(t, tableExists(t, cfg.DB.SQLite.Path, "attachments"))

	require.NoError(t, helper.Runner(cfg, helper.ActionDrop))
	assert.False(t, tableExists(t, cfg.DB.SQLite.Path, "todos"))
}

func TestRunner_UnknownAction(t *testing.T) {
	cfg := sqliteConfig(t)

	assert.Error(t, helper.Runner(cfg, "sideways"))
}

func TestRunner_MongoSkips(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = config.DBDriverMongo

	assert.NoError(t, helper.Up(cfg))
}
