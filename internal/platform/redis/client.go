package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"gavel/internal/platform/config"
)

// Client wraps go-redis so the rest of the service can health-check the
// overview cache without knowing the underlying library.
type Client struct {
	*redis.Client
}

// New connects using the configured URL. An empty URL means redis is not
// configured and callers get a nil client, not an error.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	// Pool and timeout settings come from the environment, not the URL.
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	// A dead cache backend should fail startup, not the first request.
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers pings. Feeds /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
