package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

const (
	numberDateLayout  = "20060102"
	numberCounterTTL  = 48 * time.Hour
	maxNumberAttempts = 3
)

// Counter hands out per-key sequence values; the redis client satisfies it.
type Counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CounterKey(parts ...string) string
}

// numberAllocator produces YYYYMMDD-NNNNNN order numbers. With a counter the
// sequence comes from an atomic INCR; otherwise it continues from the highest
// number already stored for the day. Past 999999 the sequence widens to seven
// digits, so the highest number is found by length before value.
type numberAllocator struct {
	counter Counter
}

func (a numberAllocator) next(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	day := now.UTC().Format(numberDateLayout)
	if a.counter != nil {
		seq, err := a.counter.IncrWithTTL(ctx, a.counter.CounterKey("order_number", day), numberCounterTTL)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}
		return formatNumber(day, seq), nil
	}

	var last string
	err := tx.Model(&models.Order{}).
		Where("order_number LIKE ?", day+"-%").
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
	}
	return formatNumber(day, parseSequence(last)+1), nil
}

func formatNumber(day string, seq int64) string {
	return fmt.Sprintf("%s-%06d", day, seq)
}

func parseSequence(number string) int64 {
	_, raw, ok := strings.Cut(number, "-")
	if !ok {
		return 0
	}
	seq, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return seq
}

// isNumberCollision reports whether err is the unique index on order_number rejecting an insert.
func isNumberCollision(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeUniqueViolation && typed.Field() == "order_number"
}
