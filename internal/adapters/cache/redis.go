package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/config"
	"github.com/jsamuelsen/market-lookup/internal/ports"
)

var _ ports.FeedCache = (*Redis)(nil)

// Redis is a feed cache shared by every service instance. Values are JSON
// arrays stored without expiry under prefix+geo.
type Redis struct {
	client *redis.Client
	prefix string
}

// redisItem is the stored form of a feed item.
type redisItem struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// NewRedis creates a Redis-backed cache.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(geo string) string {
	return r.prefix + geo
}

// Get implements ports.FeedCache.
func (r *Redis) Get(ctx context.Context, geo string) ([]domain.FeedItem, bool, error) {
	raw, err := r.client.Get(ctx, r.key(geo)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("reading feed cache: %w", err)
	}

	var stored []redisItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("decoding feed cache entry %q: %w", geo, err)
	}

	items := make([]domain.FeedItem, len(stored))
	for i, s := range stored {
		items[i] = domain.FeedItem{Link: s.Link, Title: s.Title}
	}

	return items, true, nil
}

// Set implements ports.FeedCache.
func (r *Redis) Set(ctx context.Context, geo string, items []domain.FeedItem) error {
	stored := make([]redisItem, len(items))
	for i, item := range items {
		stored[i] = redisItem{Link: item.Link, Title: item.Title}
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encoding feed cache entry: %w", err)
	}

	if err := r.client.Set(ctx, r.key(geo), raw, 0).Err(); err != nil {
		return fmt.Errorf("writing feed cache: %w", err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (r *Redis) Name() string {
	return "redis"
}

// Check implements ports.HealthChecker.
func (r *Redis) Check(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
