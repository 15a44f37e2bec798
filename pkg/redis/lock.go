package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL   = 10 * time.Second
	defaultLockRetry = 25 * time.Millisecond
)

// lockStore defines the operations used by KeyLocker.
type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(parts ...string) string
}

// KeyLocker serialises work per key across processes using SETNX + TTL.
type KeyLocker struct {
	client lockStore
	ttl    time.Duration
	retry  time.Duration
}

// NewKeyLocker constructs a Redis-backed per-key lock.
func NewKeyLocker(client lockStore, ttl time.Duration) (*KeyLocker, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &KeyLocker{client: client, ttl: ttl, retry: defaultLockRetry}, nil
}

// TryAcquire attempts to own key once. The returned owner token is needed to release.
func (l *KeyLocker) TryAcquire(ctx context.Context, key string) (string, bool, error) {
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.client.LockKey(key), owner, l.ttl)
	if err != nil {
		return "", false, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return owner, true, nil
}

// Release frees key only if owner still holds it.
func (l *KeyLocker) Release(ctx context.Context, key, owner string) error {
	if owner == "" {
		return nil
	}
	namespaced := l.client.LockKey(key)
	value, err := l.client.Get(ctx, namespaced)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != owner {
		return nil
	}
	if err := l.client.Del(ctx, namespaced); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	return nil
}

// Lock blocks until key is acquired or ctx ends, returning the release func.
func (l *KeyLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	for {
		owner, ok, err := l.TryAcquire(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			return func(releaseCtx context.Context) error {
				return l.Release(releaseCtx, key, owner)
			}, nil
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("acquire lock %s: %w", key, ctx.Err())
		case <-timer.C:
		}
	}
}
