// Package factory assembles a cache.Store from configuration, selecting
// among the available backends.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/taxlien/domaincheck/internal/cache"
	"github.com/taxlien/domaincheck/internal/cache/dynamostore"
	"github.com/taxlien/domaincheck/internal/cache/filestore"
	"github.com/taxlien/domaincheck/internal/cache/redistore"
)

// Config holds configuration for creating a cache store
type Config struct {
	// FilePath for JSON file persistence
	FilePath string

	// RedisAddr is a Redis server address (host:port)
	RedisAddr string

	// DynamoTable is a DynamoDB table name
	DynamoTable string

	// DynamoEndpoint is an optional custom DynamoDB endpoint URL
	DynamoEndpoint string
}

// NewStore creates a cache store from the configuration.
// Backends are selected in priority order: DynamoDB table, Redis address,
// file path. With no backend configured the store is memory-only, which keeps
// the cache working for a single run but drops it on exit.
func NewStore(ctx context.Context, cfg Config, logger *slog.Logger) (cache.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.DynamoTable != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		var client *dynamodb.Client
		if cfg.DynamoEndpoint != "" {
			client = dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
				o.BaseEndpoint = &cfg.DynamoEndpoint
			})
			logger.Info("using DynamoDB cache", "table", cfg.DynamoTable, "endpoint", cfg.DynamoEndpoint)
		} else {
			client = dynamodb.NewFromConfig(awsCfg)
			logger.Info("using DynamoDB cache", "table", cfg.DynamoTable)
		}

		return dynamostore.New(client, cfg.DynamoTable), nil
	}

	if cfg.RedisAddr != "" {
		logger.Info("using Redis cache", "addr", cfg.RedisAddr)
		return redistore.New(cfg.RedisAddr), nil
	}

	if cfg.FilePath != "" {
		store, err := filestore.NewWithPersistence(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache file store: %w", err)
		}
		logger.Info("using file cache", "path", cfg.FilePath)
		return store, nil
	}

	logger.Debug("no cache backend configured, using memory-only cache")
	return filestore.New(), nil
}
