package database

//nolint:revive
import (
	"fmt"
	"os"
	"path/filepath"

	"todoapi/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const sqliteOptions = "?_busy_timeout=5000&_journal_mode=WAL"

// OpenSQLite opens the database file at path, creating its directory when needed.
// SQLite serialises writers, so both handles share one connection.
func OpenSQLite(path string) (*Connection, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	sqlDB, err := sqlx.Connect("sqlite3", path+sqliteOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("path", path).Msg("Connected to sqlite")

	return &Connection{
		Driver: config.DBDriverSQLite,
		Read:   sqlDB,
		Write:  sqlDB,
	}, nil
}

// SQLiteURL is the golang-migrate database URL for the file at path.
func SQLiteURL(path string) string {
	return "sqlite3://" + path
}
