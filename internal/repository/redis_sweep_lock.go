package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	pkgredis "github.com/Yashvvvv/VenueSync/pkg/redis"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

//go:embed scripts/release_lock.lua
var releaseLockSource string

var releaseLockScript = redis.NewScript(releaseLockSource)

const sweepLockPrefix = "sweep:lock:"

// RedisSweepLock implements SweepLock with SET NX PX and a compare-and-delete release
type RedisSweepLock struct {
	client   *pkgredis.Client
	newToken func() string
}

// NewRedisSweepLock creates a new RedisSweepLock
func NewRedisSweepLock(client *pkgredis.Client) *RedisSweepLock {
	return &RedisSweepLock{client: client, newToken: uuid.NewString}
}

// LoadScripts loads the release script into Redis
func (l *RedisSweepLock) LoadScripts(ctx context.Context) error {
	return l.client.LoadScripts(ctx, releaseLockScript)
}

// Acquire takes the named lock for ttl
func (l *RedisSweepLock) Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, sweepLockPrefix+name, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the named lock if token still owns it. A lock that expired
// and was taken by another holder is left untouched.
func (l *RedisSweepLock) Release(ctx context.Context, name, token string) error {
	err := l.client.RunScript(ctx, releaseLockScript, []string{sweepLockPrefix + name}, token).Err()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", name, err)
	}
	return nil
}
