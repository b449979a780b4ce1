package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kernelci/backend-go/config"
)

// NewMongoDatabase connects to the document store and verifies the link with
// a ping before handing the database out.
func NewMongoDatabase(
	ctx context.Context,
	cfg *config.MongoConfig,
	logger *slog.Logger,
) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect document store: %w", err)
	}

	if err = client.Ping(connectCtx, readpref.Primary()); err != nil {
		if derr := client.Disconnect(ctx); derr != nil {
			logger.WarnContext(ctx, "disconnect after failed ping", "error", derr)
		}
		return nil, nil, fmt.Errorf("ping document store: %w", err)
	}

	logger.InfoContext(ctx, "document store connected", "database", cfg.Database)
	return client, client.Database(cfg.Database), nil
}

// NewCacheClient builds the Redis client for the document cache, or nil when
// the cache is disabled in configuration.
func NewCacheClient(cfg *config.CacheConfig) redis.UniversalClient {
	if cfg.Disabled {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
