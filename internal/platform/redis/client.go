package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"studiogate/internal/platform/config"
)

// Client wraps go-redis so callers get a health probe alongside the raw
// client. A nil *Client means Redis is not configured for this deployment.
type Client struct {
	*redis.Client
}

// New dials Redis from the given configuration. An empty URL is not an
// error, it means the deployment runs without a Redis profile store.
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
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers PING. Used by the
// /healthz endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
