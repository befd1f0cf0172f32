package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig describes the audit trail database.
type MongoConfig struct {
	URI      string
	Database string
	Username string
	Password string
	AppName  string
}

// NewMongoDatabase connects, pings and returns the configured database.
func NewMongoDatabase(ctx context.Context, cfg MongoConfig) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)
	if cfg.AppName != "" {
		clientOptions.SetAppName(cfg.AppName)
	}
	if cfg.Username != "" && cfg.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
