package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hrdocflow/internal/config"
)

type RedisClient struct {
	Client *redis.Client
	logger *zap.Logger
}

func NewRedisClient(cfg *config.Config, logger *zap.Logger) (*RedisClient, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connected successfully",
		zap.String("addr", addr),
		zap.Int("db", cfg.Redis.DB),
	)

	return &RedisClient{
		Client: client,
		logger: logger,
	}, nil
}

func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.Client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return r.Client.Get(ctx, key).Result()
}

func (r *RedisClient) Del(ctx context.Context, keys ...string) error {
	return r.Client.Del(ctx, keys...).Err()
}

// LPush enqueues a value at the head of a list.
func (r *RedisClient) LPush(ctx context.Context, key string, value interface{}) error {
	return r.Client.LPush(ctx, key, value).Err()
}

// BRPopLPush atomically moves the tail of source to the head of destination,
// blocking up to timeout. Returns redis.Nil via the wrapped error when the
// wait times out with nothing queued.
func (r *RedisClient) BRPopLPush(ctx context.Context, source, destination string, timeout time.Duration) (string, error) {
	return r.Client.BRPopLPush(ctx, source, destination, timeout).Result()
}

// LRem removes count occurrences of value from the list at key.
func (r *RedisClient) LRem(ctx context.Context, key string, count int64, value interface{}) error {
	return r.Client.LRem(ctx, key, count, value).Err()
}

// LRange returns the list slice [start, stop].
func (r *RedisClient) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.Client.LRange(ctx, key, start, stop).Result()
}

// IsNil reports whether err is the redis empty-result sentinel.
func IsNil(err error) bool {
	return err == redis.Nil
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}
