package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
)

// Client caches the latest presence snapshot so the website proxy reads
// Redis instead of hitting the upstream API on every page view.
type Client struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// Config holds Redis connection configuration.
type Config struct {
	URL         string        `yaml:"url"`
	Password    string        `yaml:"password"`
	SnapshotKey string        `yaml:"snapshot_key"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb, key: cfg.SnapshotKey, ttl: cfg.SnapshotTTL}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetSnapshot stores the snapshot as JSON under the configured key. The TTL
// keeps stale presence from outliving a dead poller.
func (c *Client) SetSnapshot(ctx context.Context, p *domain.Presence) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// GetSnapshot reads the cached snapshot. A missing key returns (nil, nil).
func (c *Client) GetSnapshot(ctx context.Context) (*domain.Presence, error) {
	data, err := c.rdb.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var p domain.Presence
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &p, nil
}

// Render lets the client plug in directly as a render sink.
func (c *Client) Render(ctx context.Context, p *domain.Presence) error {
	return c.SetSnapshot(ctx, p)
}
