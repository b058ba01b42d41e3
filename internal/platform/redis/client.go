// Package redis builds the shared go-redis client used by the denylist
// restricted-holder store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"assetgate/internal/platform/config"
)

// Client embeds the go-redis client and adds a health probe.
type Client struct {
	*redis.Client
}

// New dials Redis from configuration and verifies the connection with a
// ping. Returns nil without error when no URL is configured; the caller
// falls back to the in-memory restricted store.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}
