package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/pkg/logger"
)

func TestNotificationCleanupJobUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeNotificationRepo{deletedRows: 42}
	job := newNotificationCleanupJob(t, repo, 0)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, now.Add(-defaultNotificationRetention), repo.lastCutoff)
	assert.Equal(t, 1, repo.called)
}

func TestNotificationCleanupJobHonoursCustomRetention(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeNotificationRepo{}
	job := newNotificationCleanupJob(t, repo, 48*time.Hour)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC), repo.lastCutoff)
}

func TestNotificationCleanupJobPropagatesErrors(t *testing.T) {
	job := newNotificationCleanupJob(t, &fakeNotificationRepo{err: errors.New("boom")}, 0)
	assert.Error(t, job.Run(context.Background()))
}

func TestNewNotificationCleanupJobRequiresDependencies(t *testing.T) {
	_, err := NewNotificationCleanupJob(NotificationCleanupJobParams{Repository: &fakeNotificationRepo{}})
	assert.Error(t, err)
	_, err = NewNotificationCleanupJob(NotificationCleanupJobParams{Logger: logger.Nop()})
	assert.Error(t, err)
}

func newNotificationCleanupJob(t *testing.T, repo *fakeNotificationRepo, retention time.Duration) *notificationCleanupJob {
	t.Helper()
	jobIface, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     logger.Nop(),
		Repository: repo,
		Retention:  retention,
	})
	require.NoError(t, err)
	job, ok := jobIface.(*notificationCleanupJob)
	require.True(t, ok, "expected notificationCleanupJob, got %T", jobIface)
	return job
}

type fakeNotificationRepo struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeNotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}
