package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewDraftStore builds the store selected by draft.driver.
// The redis driver needs a connected client.
func NewDraftStore(cfg config.DraftConfig, client redis.Cmdable, logger *zap.Logger) (design.DraftStore, error) {
	switch cfg.Driver {
	case config.DraftDriverRedis:
		if client == nil {
			return nil, fmt.Errorf("draft store: redis driver selected but no client configured")
		}
		logger.Info("using Redis draft store", zap.Duration("ttl", cfg.TTL))
		return NewRedisDraftStore(client, cfg.KeyPrefix, cfg.TTL), nil
	case config.DraftDriverMemory, "":
		logger.Warn("using in-memory draft store; drafts are lost on restart and not shared across instances")
		return NewMemoryDraftStore(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported draft driver: %s", cfg.Driver)
	}
}
