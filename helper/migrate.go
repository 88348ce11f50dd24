package helper

//nolint:revive
import (
	"errors"
	"fmt"

	"todoapi/config"
	"todoapi/infras/database"
	"todoapi/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

var errUnknownAction = errors.New("unknown migration action")

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	var dir, databaseURL string

	switch cfg.DB.Driver {
	case config.DBDriverPostgres:
		dir = migrations.DirPostgres
		databaseURL = fmt.Sprintf("%s&x-migrations-table=%s", database.PostgresURL(*cfg), cfg.DB.MigrationTable)
	case config.DBDriverSQLite:
		dir = migrations.DirSQLite
		databaseURL = fmt.Sprintf("%s?x-migrations-table=%s", database.SQLiteURL(cfg.DB.SQLite.Path), cfg.DB.MigrationTable)
	default:
		return nil, nil
	}

	source, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("error opening embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Runner applies action against the configured SQL database. Mongo has no
// schema to migrate; its indexes are ensured when the repositories start.
func Runner(cfg *config.Config, action string) error {
	mig, err := getConnection(cfg)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	if mig == nil {
		log.Info().Str("driver", cfg.DB.Driver).Msg("Driver has no SQL schema, skipping migrations")

		return nil
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")

		return nil
	case ActionDown:
		if err := mig.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")

		return nil
	case ActionStepUp:
		if err := mig.Steps(1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")

		return nil
	case ActionDrop:
		if err := mig.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")

		return nil
	}

	return fmt.Errorf("%w: %s", errUnknownAction, action)
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}
