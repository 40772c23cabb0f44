package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI         string
	Database    string
	Timeout     time.Duration
	MaxPoolSize uint64
}

// DefaultMongoConfig returns local development defaults.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:         "mongodb://localhost:27017",
		Database:    "swag-shop",
		Timeout:     10 * time.Second,
		MaxPoolSize: 100,
	}
}

// NewMongoClient connects and pings the primary, retrying startup failures.
// monitor may be nil.
func NewMongoClient(ctx context.Context, cfg MongoConfig, monitor *event.PoolMonitor, logger *slog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout).
		SetMaxPoolSize(cfg.MaxPoolSize)
	if monitor != nil {
		opts.SetPoolMonitor(monitor)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	err = newRetrier(logger).do(ctx, "ping mongodb", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
