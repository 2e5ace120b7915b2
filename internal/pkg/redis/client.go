package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/barani-1502/Management-reports/internal/pkg/config"
)

var (
	client *redis.Client
	log    *zap.Logger
)

// Init initializes the Redis client. Redis is optional: callers treat a
// failed Init as "rate limiting falls back to the in-memory limiter".
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "",
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		return err
	}

	log = zap.L().With(zap.String("component", "redis"))
	log.Info("Redis connected successfully",
		zap.String("addr", cfg.GetRedisAddr()))

	return nil
}

// GetClient returns the Redis client, nil when Init failed or was skipped.
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// Hit increments the fixed-window counter for key and returns the count
// within the current window. The expiry is set only when the key is
// created, so the window does not slide.
func Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	if client == nil {
		return 0, fmt.Errorf("redis client not initialized")
	}

	pipe := client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}
