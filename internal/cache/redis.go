package cache

import (
	"context"
	"fmt"
	"time"

	"tablebook/internal/config"
	"tablebook/internal/models"
	"tablebook/internal/schedule"

	"github.com/redis/go-redis/v9"
)

// RedisAvailabilityCache stores rendered day maps in Redis. A day map is
// persisted as its 96-character slot string.
type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{
		client: client,
		ttl:    ttl,
	}
}

func dayMapKey(tableID int64, date time.Time) string {
	return fmt.Sprintf("availability:%d:%s", tableID, date.Format(models.DateLayout))
}

func (c *RedisAvailabilityCache) GetDayMap(ctx context.Context, tableID int64, date time.Time) (schedule.DayMap, bool, error) {
	var m schedule.DayMap
	if c.client == nil {
		return m, false, fmt.Errorf("redis client is nil")
	}

	val, err := c.client.Get(ctx, dayMapKey(tableID, date)).Result()
	if err == redis.Nil {
		return m, false, nil
	}
	if err != nil {
		return m, false, fmt.Errorf("failed to get day map from redis: %w", err)
	}

	parsed, err := schedule.ParseDayMap(val)
	if err != nil {
		// a corrupt entry is treated as a miss, the caller rebuilds it
		return m, false, nil
	}

	return parsed, true, nil
}

func (c *RedisAvailabilityCache) SetDayMap(ctx context.Context, tableID int64, date time.Time, m schedule.DayMap) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	if err := c.client.Set(ctx, dayMapKey(tableID, date), m.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set day map in redis: %w", err)
	}

	return nil
}

func (c *RedisAvailabilityCache) InvalidateDayMap(ctx context.Context, tableID int64, date time.Time) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	if err := c.client.Del(ctx, dayMapKey(tableID, date)).Err(); err != nil {
		return fmt.Errorf("failed to delete day map from redis: %w", err)
	}

	return nil
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
