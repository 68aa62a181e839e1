package database

import (
	"context"
	"fmt"

	"devconnector/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo owns the client and the selected database handle.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    logger.Logger
}

// ConnectMongo dials the cluster and verifies it with a ping before returning.
func ConnectMongo(ctx context.Context, cfg *MongoConfig, log logger.Logger) (*Mongo, error) {
	if cfg == nil || cfg.URI == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.WithComponent("database").Infof("MongoDB connection established (db=%s)", cfg.DatabaseName)
	return &Mongo{
		Client: client,
		DB:     client.Database(cfg.DatabaseName),
		log:    log,
	}, nil
}

// Ping checks the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return fmt.Errorf("mongodb client not initialized")
	}
	return m.Client.Ping(ctx, nil)
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}
