package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeyLocker struct {
	holder   string
	released []string
}

func (f *fakeKeyLocker) TryAcquire(_ context.Context, key string) (string, bool, error) {
	if f.holder != "" {
		return "", false, nil
	}
	f.holder = key + "-owner"
	return f.holder, true, nil
}

func (f *fakeKeyLocker) Release(_ context.Context, _ string, owner string) error {
	f.released = append(f.released, owner)
	if owner == f.holder {
		f.holder = ""
	}
	return nil
}

func TestKeyLockAcquireRelease(t *testing.T) {
	ctx := context.Background()
	locker := &fakeKeyLocker{}
	first, err := NewKeyLock(locker, "cron:dev")
	require.NoError(t, err)
	second, err := NewKeyLock(locker, "cron:dev")
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Release(ctx))
	assert.Equal(t, []string{"cron:dev-owner"}, locker.released)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewKeyLockValidates(t *testing.T) {
	_, err := NewKeyLock(nil, "k")
	assert.Error(t, err)
	_, err = NewKeyLock(&fakeKeyLocker{}, "")
	assert.Error(t, err)
}

func TestLocalLockIsExclusive(t *testing.T) {
	ctx := context.Background()
	var lock LocalLock

	ok, _ := lock.Acquire(ctx)
	assert.True(t, ok)
	ok, _ = lock.Acquire(ctx)
	assert.False(t, ok)

	require.NoError(t, lock.Release(ctx))
	ok, _ = lock.Acquire(ctx)
	assert.True(t, ok)
}
