package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/logger"
)

const (
	defaultCartRetention = 30 * 24 * time.Hour
	defaultCartBatch     = 200
)

type CartCleanupJobParams struct {
	Logger     *logger.Logger
	Repository abandonedCartsRepo
	Deleter    entityDeleter
	Retention  time.Duration
	BatchSize  int
}

type abandonedCartsRepo interface {
	AbandonedCarts(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

type entityDeleter interface {
	Delete(ctx context.Context, kind enums.EntityKind, id uuid.UUID) error
}

// NewCartCleanupJob deletes carts that have been empty and untouched for the
// retention window. Deletes go through the integrity store one cart at a time.
func NewCartCleanupJob(params CartCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("carts repository required")
	}
	if params.Deleter == nil {
		return nil, fmt.Errorf("deleter required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultCartRetention
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultCartBatch
	}
	return &cartCleanupJob{
		logg:      params.Logger,
		repo:      params.Repository,
		deleter:   params.Deleter,
		retention: retention,
		batch:     batch,
		now:       time.Now,
	}, nil
}

type cartCleanupJob struct {
	logg      *logger.Logger
	repo      abandonedCartsRepo
	deleter   entityDeleter
	retention time.Duration
	batch     int
	now       func() time.Time
}

func (j *cartCleanupJob) Name() string { return "cart-cleanup" }

func (j *cartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	ids, err := j.repo.AbandonedCarts(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("cart cleanup: %w", err)
	}

	var errs error
	deleted := 0
	for _, id := range ids {
		err := j.deleter.Delete(ctx, enums.EntityKindCart, id)
		switch {
		case err == nil:
			deleted++
		case pkgerrors.Is(err, pkgerrors.CodeNotFound):
			// removed concurrently
		default:
			errs = multierr.Append(errs, fmt.Errorf("cart %s: %w", id, err))
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"candidates":   len(ids),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "cart cleanup complete")
	return errs
}
