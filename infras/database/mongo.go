package database

import (
	"context"
	"fmt"
	"time"

	"todoapi/config"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoConnectTimeout = 10 * time.Second

// OpenMongo connects to uri and pings the primary, retrying maxRetry times.
func OpenMongo(ctx context.Context, uri, dbName string, maxRetry, waitTime int) (*Connection, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(mongoConnectTimeout).
		SetServerSelectionTimeout(mongoConnectTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	attempts := max(maxRetry, 1)

	for retry := range attempts {
		pingCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
		err = client.Ping(pingCtx, readpref.Primary())

		cancel()

		if err == nil {
			log.Info().Str("database", dbName).Msg("Connected to mongo")

			return &Connection{
				Driver: config.DBDriverMongo,
				Mongo:  client.Database(dbName),
			}, nil
		}

		log.
			Error().
			Err(err).
			Str("database", dbName).
			Int("attempt", retry+1).
			Msg("Failed connecting to mongo, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	_ = client.Disconnect(context.WithoutCancel(ctx))

	return nil, fmt.Errorf("failed to ping mongo: %w", err)
}
