package database

//nolint:revive
import (
	"fmt"
	"net"
	"time"

	"todoapi/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

// PostgresDBName returns the database name with prefix if configured.
func PostgresDBName(cfg config.Config, baseName string) string {
	if cfg.DB.Postgres.Prefix != "" {
		return cfg.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// PostgresURL builds the write DSN, which is also the one migrations run against.
func PostgresURL(cfg config.Config) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.DB.Postgres.Write.Username,
		cfg.DB.Postgres.Write.Password,
		net.JoinHostPort(cfg.DB.Postgres.Write.Host, cfg.DB.Postgres.Write.Port),
		PostgresDBName(cfg, cfg.DB.Postgres.Write.Name),
		cfg.DB.Postgres.Write.SSLMode,
	)
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(cfg config.Config) *sqlx.DB {
	return CreatePostgresConnection(
		"write",
		cfg.DB.Postgres.Write.Username,
		cfg.DB.Postgres.Write.Password,
		cfg.DB.Postgres.Write.Host,
		cfg.DB.Postgres.Write.Port,
		PostgresDBName(cfg, cfg.DB.Postgres.Write.Name),
		cfg.DB.Postgres.Write.SSLMode,
		cfg.DB.MaxRetry,
		cfg.DB.RetryWaitTime,
	)
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(cfg config.Config) *sqlx.DB {
	return CreatePostgresConnection(
		"read",
		cfg.DB.Postgres.Read.Username,
		cfg.DB.Postgres.Read.Password,
		cfg.DB.Postgres.Read.Host,
		cfg.DB.Postgres.Read.Port,
		PostgresDBName(cfg, cfg.DB.Postgres.Read.Name),
		cfg.DB.Postgres.Read.SSLMode,
		cfg.DB.MaxRetry,
		cfg.DB.RetryWaitTime,
	)
}

// CreatePostgresConnection creates a database connection, retrying maxRetry times.
func CreatePostgresConnection(name, username, password, host, port, dbName, sslMode string, maxRetry, waitTime int) *sqlx.DB {
	descriptor := fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		username,
		password,
		net.JoinHostPort(host, port),
		dbName,
		sslMode,
	)

	for retry := range maxRetry {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.
				Info().
				Str("name", name).
				Str("host", host).
				Str("port", port).
				Str("dbName", dbName).
				Msg("Connected to postgres")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", name).
			Str("host", host).
			Int("attempt", retry+1).
			Msg("Failed connecting to postgres, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil
}
