package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown suppresses repeat reminders across cron runs. The key is
// stable per location, not per task: every warm cycle inserts a fresh
// task row, so a task-scoped key would never be seen twice.
type Cooldown interface {
	// Active reports whether a reminder was sent recently
	Active(ctx context.Context) (bool, error)
	// Mark records that a reminder was just sent
	Mark(ctx context.Context, ttl time.Duration) error
	Close() error
}

// RedisCooldown stores the reminder cooldown key in Redis with a TTL
type RedisCooldown struct {
	client *redis.Client
	key    string
}

// NewRedisCooldown connects to Redis and verifies the connection
func NewRedisCooldown(ctx context.Context, redisURL, location string) (*RedisCooldown, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCooldown{client: client, key: cooldownKey(location)}, nil
}

func cooldownKey(location string) string {
	return fmt.Sprintf("reminder:%s", location)
}

func (r *RedisCooldown) Active(ctx context.Context) (bool, error) {
	_, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to check reminder cooldown: %w", err)
	}
	return true, nil
}

func (r *RedisCooldown) Mark(ctx context.Context, ttl time.Duration) error {
	err := r.client.Set(ctx, r.key, time.Now().UTC().Format(time.RFC3339), ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to mark reminder cooldown: %w", err)
	}
	return nil
}

func (r *RedisCooldown) Close() error {
	return r.client.Close()
}

// NoopCooldown is used when no Redis is configured; every reminder is
// delivered.
type NoopCooldown struct{}

func NewNoopCooldown() *NoopCooldown {
	return &NoopCooldown{}
}

func (NoopCooldown) Active(ctx context.Context) (bool, error)          { return false, nil }
func (NoopCooldown) Mark(ctx context.Context, ttl time.Duration) error { return nil }
func (NoopCooldown) Close() error                                      { return nil }
