package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/irfndi/indexcast/internal/config"
	"github.com/irfndi/indexcast/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test PostgresDB Close method with nil pool
func TestPostgresDB_Close_NilPool(t *testing.T) {
	db := &PostgresDB{Pool: nil}

	// Should not panic when closing nil pool
	assert.NotPanics(t, func() {
		db.Close()
	})
}

func TestPostgresDB_HealthCheck_NilPool(t *testing.T) {
	db := &PostgresDB{Pool: nil}

	err := db.HealthCheck(context.Background())
	assert.ErrorIs(t, err, ErrNilPool)
}

func TestNewPostgresConnection_InvalidConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		DatabaseURL: "postgres://localhost:notaport/indexcast",
	}

	db, err := NewPostgresConnection(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to parse database config")
}

func TestNewPostgresConnection_InvalidLifetime(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "test",
		Password:        "test",
		DBName:          "test",
		SSLMode:         "disable",
		ConnMaxLifetime: "forever",
	}

	db, err := NewPostgresConnection(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "invalid conn_max_lifetime")
}

func TestRedisClient_Close_NilClient(t *testing.T) {
	client := &RedisClient{Client: nil}

	assert.NotPanics(t, func() {
		client.Close()
	})
}

func TestRedisClient_NilClient(t *testing.T) {
	client := &RedisClient{Client: nil}
	ctx := context.Background()

	assert.ErrorIs(t, client.HealthCheck(ctx), ErrNilRedis)
	assert.ErrorIs(t, client.Set(ctx, "k", "v", time.Minute), ErrNilRedis)
	_, err := client.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNilRedis)
	assert.ErrorIs(t, client.Delete(ctx, "k"), ErrNilRedis)
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, config.RedisConfig) {
	t.Helper()
	return testutil.StartRedis(t)
}

func TestNewRedisConnection(t *testing.T) {
	mr, cfg := setupTestRedis(t)
	ctx := context.Background()

	client, err := NewRedisConnection(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.HealthCheck(ctx))
	require.NoError(t, client.Set(ctx, "indexcast:test", "payload", time.Minute))

	value, err := client.Get(ctx, "indexcast:test")
	require.NoError(t, err)
	assert.Equal(t, "payload", value)
	assert.True(t, mr.Exists("indexcast:test"))

	require.NoError(t, client.Delete(ctx, "indexcast:test"))
	_, err = client.Get(ctx, "indexcast:test")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestNewRedisConnection_Unreachable(t *testing.T) {
	mr, cfg := setupTestRedis(t)
	mr.Close()

	client, err := NewRedisConnection(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
