/**
 * @description
 * MongoDB connection manager using the official driver.
 * The default document store for listings, price history, favorites and search analytics.
 *
 * @dependencies
 * - go.mongodb.org/mongo-driver/mongo
 */

package db

import (
	"context"
	"time"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo opens a client for cfg.DB.URL and returns the configured database
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.DB.URL).
		SetAppName("dealwise-backend").
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info("✅ Connected to MongoDB (database %s)", cfg.DB.Name)
	return client, client.Database(cfg.DB.Name), nil
}
