package cron

import (
	"context"
	"errors"
	"sync"
)

// Lock coordinates exclusive cron runs.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// keyLocker is the per-key lock surface of redis.KeyLocker.
type keyLocker interface {
	TryAcquire(ctx context.Context, key string) (string, bool, error)
	Release(ctx context.Context, key, owner string) error
}

// KeyLock holds one named key on a shared locker so only one worker runs a cycle.
type KeyLock struct {
	locker keyLocker
	key    string

	mu    sync.Mutex
	owner string
}

func NewKeyLock(locker keyLocker, key string) (*KeyLock, error) {
	if locker == nil {
		return nil, errors.New("locker required")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	return &KeyLock{locker: locker, key: key}, nil
}

// Acquire tries to own the key once.
func (l *KeyLock) Acquire(ctx context.Context) (bool, error) {
	owner, ok, err := l.locker.TryAcquire(ctx, l.key)
	if err != nil || !ok {
		return false, err
	}
	l.mu.Lock()
	l.owner = owner
	l.mu.Unlock()
	return true, nil
}

// Release frees the key only if this lock still owns it.
func (l *KeyLock) Release(ctx context.Context) error {
	l.mu.Lock()
	owner := l.owner
	l.owner = ""
	l.mu.Unlock()
	return l.locker.Release(ctx, l.key, owner)
}

// LocalLock serialises cycles within one process when Redis is not configured.
type LocalLock struct {
	mu sync.Mutex
}

func (l *LocalLock) Acquire(context.Context) (bool, error) {
	return l.mu.TryLock(), nil
}

func (l *LocalLock) Release(context.Context) error {
	l.mu.Unlock()
	return nil
}
