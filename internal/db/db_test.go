package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	pool, err := Connect(ctx, ":memory:")
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.ExecContext(ctx, `INSERT INTO users (player_id, username, password_hash) VALUES (?, ?, ?)`, "p1", "alice", "hash")
	require.NoError(t, err)

	_, err = pool.ExecContext(ctx, `INSERT INTO users (player_id, username, password_hash) VALUES (?, ?, ?)`, "p2", "alice", "hash")
	assert.Error(t, err, "usernames are unique")

	var n int
	require.NoError(t, pool.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, 1, n)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "redis://host:port:extra/not-a-db")
	assert.ErrorContains(t, err, "invalid redis connection string")
}
