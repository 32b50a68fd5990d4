package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Yashvvvv/VenueSync/pkg/config"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig() *Config {
	cfg := DefaultConfig()
	if host := os.Getenv("TEST_REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	if password := os.Getenv("TEST_REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, 20, cfg.PoolSize)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "redis.example.com:6380", (&Config{Host: "redis.example.com", Port: 6380}).Addr())
	assert.Equal(t, "[::1]:6379", (&Config{Host: "::1", Port: 6379}).Addr())
}

func TestFromAppConfig(t *testing.T) {
	rc := FromAppConfig(&config.RedisConfig{
		Host:     "cache",
		Port:     6390,
		Password: "secret",
		DB:       2,
		PoolSize: 12,
	})

	assert.Equal(t, "cache:6390", rc.Addr())
	assert.Equal(t, "secret", rc.Password)
	assert.Equal(t, 2, rc.DB)
	assert.Equal(t, 12, rc.PoolSize)
	assert.Equal(t, 2, rc.MinIdleConns)
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := &Config{
		Host:          "invalid-host-that-does-not-exist",
		Port:          9999,
		RetryInterval: 100 * time.Millisecond,
		DialTimeout:   500 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewClient(ctx, cfg)
	assert.Error(t, err)
}

func TestClient_RunScript_BySHA(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewFromClient(db)

	script := redis.NewScript(`return tonumber(ARGV[1]) * 2`)
	mock.ExpectEvalSha(script.Hash(), []string{"k"}, 7).SetVal(int64(14))

	result, err := client.RunScript(context.Background(), script, []string{"k"}, 7).Int()
	require.NoError(t, err)
	assert.Equal(t, 14, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_LoadScripts(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewFromClient(db)

	one := redis.NewScript(`return 1`)
	two := redis.NewScript(`return 2`)
	mock.ExpectScriptLoad(`return 1`).SetVal(one.Hash())
	mock.ExpectScriptLoad(`return 2`).SetErr(errors.New("READONLY"))

	err := client.LoadScripts(context.Background(), one, two)
	assert.ErrorContains(t, err, two.Hash())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_HealthCheck(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewFromClient(db)

	mock.ExpectPing().SetVal("PONG")
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	assert.NoError(t, client.HealthCheck(context.Background()))
	assert.Error(t, client.HealthCheck(context.Background()))
}

// Integration tests - require Redis to be running

func TestClient_SetNX_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, getTestConfig())
	require.NoError(t, err)
	defer client.Close()

	key := "test:setnx:" + time.Now().Format("20060102150405.000")
	defer client.Del(ctx, key)

	ok, err := client.SetNX(ctx, key, "a", time.Minute).Result()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, key, "b", time.Minute).Result()
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "a", val)
}
