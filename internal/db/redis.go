package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to connStr, which is either host:port or a
// redis:// URL carrying credentials and a database number. The server is
// pinged before the client is returned.
func NewRedisClient(ctx context.Context, connStr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: connStr}
	if strings.Contains(connStr, "://") {
		parsed, err := redis.ParseURL(connStr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis connection string: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
