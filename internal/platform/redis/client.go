// Package redis connects the kiosk to the fleet Redis that mirrors the last
// good trust list.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"laurelid/internal/platform/config"
)

const pingTimeout = 3 * time.Second

// Client is a go-redis client that reports its own health.
type Client struct {
	*redis.Client
}

// New dials Redis and verifies the connection. It returns a nil client and
// no error when no URL is configured. clientName shows up in CLIENT LIST so
// operators can tell kiosks apart.
func New(ctx context.Context, cfg config.RedisConfig, clientName string) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	applyConfig(opts, cfg)
	if clientName != "" {
		opts.ClientName = clientName
	}

	c := &Client{Client: redis.NewClient(opts)}
	if err := c.Health(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	return c, nil
}

func applyConfig(opts *redis.Options, cfg config.RedisConfig) {
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
}

// Health pings Redis, bounded by a short timeout.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.Ping(ctx).Err()
}
