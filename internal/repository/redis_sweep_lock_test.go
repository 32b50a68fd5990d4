package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgredis "github.com/Yashvvvv/VenueSync/pkg/redis"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSweepLock(t *testing.T) (*RedisSweepLock, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	lock := NewRedisSweepLock(pkgredis.NewFromClient(db))
	lock.newToken = func() string { return "token-1" }
	return lock, mock
}

func TestRedisSweepLock_Acquire(t *testing.T) {
	lock, mock := newTestSweepLock(t)
	ctx := context.Background()

	mock.ExpectSetNX("sweep:lock:ticket-expiration", "token-1", time.Minute).SetVal(true)
	mock.ExpectSetNX("sweep:lock:ticket-expiration", "token-1", time.Minute).SetVal(false)

	token, ok, err := lock.Acquire(ctx, "ticket-expiration", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token-1", token)

	token, ok, err = lock.Acquire(ctx, "ticket-expiration", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSweepLock_AcquireError(t *testing.T) {
	lock, mock := newTestSweepLock(t)

	mock.ExpectSetNX("sweep:lock:event-completion", "token-1", time.Minute).SetErr(errors.New("connection refused"))

	_, ok, err := lock.Acquire(context.Background(), "event-completion", time.Minute)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisSweepLock_Release(t *testing.T) {
	lock, mock := newTestSweepLock(t)

	sha := releaseLockScript.Hash()
	mock.ExpectEvalSha(sha, []string{"sweep:lock:ticket-expiration"}, "token-1").SetVal(int64(1))
	mock.ExpectEvalSha(sha, []string{"sweep:lock:ticket-expiration"}, "token-1").SetErr(errors.New("connection reset"))

	require.NoError(t, lock.Release(context.Background(), "ticket-expiration", "token-1"))
	assert.Error(t, lock.Release(context.Background(), "ticket-expiration", "token-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSweepLock_LoadScripts(t *testing.T) {
	lock, mock := newTestSweepLock(t)

	mock.ExpectScriptLoad(releaseLockSource).SetVal(releaseLockScript.Hash())

	require.NoError(t, lock.LoadScripts(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
