package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/theo45530/commerceai-pro/pkg/logging"
)

// ErrNoDocuments is returned when a query matches nothing
var ErrNoDocuments = mongo.ErrNoDocuments

const defaultConnectTimeout = 10 * time.Second

// Config holds MongoDB connection configuration
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: defaultConnectTimeout,
	}
}

// Connect establishes a MongoDB connection and verifies it with a ping
func Connect(cfg Config, logger logging.Logger) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongodb URI is required")
	}
	if cfg.Database == "" {
		return nil, nil, fmt.Errorf("mongodb database name is required")
	}

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = defaultConnectTimeout
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.WithFields(logging.Fields{
		"database": cfg.Database,
	}).Info("MongoDB connected")

	return client, client.Database(cfg.Database), nil
}

// MustConnect is like Connect but exits on error
func MustConnect(cfg Config, logger logging.Logger) (*mongo.Client, *mongo.Database) {
	client, db, err := Connect(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	return client, db
}
