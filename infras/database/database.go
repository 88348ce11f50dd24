package database

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoapi/config"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

const disconnectTimeout = 5 * time.Second

// Connection holds the handles of the configured document store. Read and
// Write are set for the SQL drivers, Mongo for the mongo driver.
type Connection struct {
	Driver string
	Read   *sqlx.DB
	Write  *sqlx.DB
	Mongo  *mongo.Database
}

func New(cfg *config.Config) *Connection {
	var (
		conn *Connection
		err  error
	)

	switch cfg.DB.Driver {
	case config.DBDriverMongo:
		conn, err = OpenMongo(context.Background(), cfg.DB.Mongo.URI, cfg.DB.Mongo.Database, cfg.DB.MaxRetry, cfg.DB.RetryWaitTime)
	case config.DBDriverPostgres:
		conn = &Connection{
			Driver: config.DBDriverPostgres,
			Read:   CreatePostgresReadConn(*cfg),
			Write:  CreatePostgresWriteConn(*cfg),
		}

		if conn.Read == nil || conn.Write == nil {
			err = fmt.Errorf("postgres unreachable after %d attempts", cfg.DB.MaxRetry)
		}
	case config.DBDriverSQLite:
		conn, err = OpenSQLite(cfg.DB.SQLite.Path)
	default:
		err = fmt.Errorf("unknown database driver %q", cfg.DB.Driver)
	}

	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("Failed to open database")
	}

	return conn
}

// IsSQL reports whether the connection is backed by sqlx.
func (c *Connection) IsSQL() bool {
	return c.Driver == config.DBDriverPostgres || c.Driver == config.DBDriverSQLite
}

func (c *Connection) Close() error {
	var errs []error

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()

		if err := c.Mongo.Client().Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect mongo: %w", err))
		}
	}

	if c.Write != nil {
		if err := c.Write.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close write connection: %w", err))
		}
	}

	if c.Read != nil && c.Read != c.Write {
		if err := c.Read.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close read connection: %w", err))
		}
	}

	return errors.Join(errs...)
}
