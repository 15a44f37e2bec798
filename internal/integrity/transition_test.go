package integrity

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

func newOrderProduct(t *testing.T, h harness) *models.OrderProduct {
	t.Helper()
	user := h.fx.User()
	product := h.fx.Product(h.fx.Shop(user.ID).ID)
	return h.fx.OrderProduct(h.fx.Order(user.ID, h.fx.Address(user.ID).ID).ID, product.ID)
}

func TestTransitionHappyPath(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := newOrderProduct(t, h)

	for _, next := range []enums.OrderProductStatus{
		enums.OrderProductStatusProcessing,
		enums.OrderProductStatusShipped,
		enums.OrderProductStatusDelivered,
	} {
		got, err := h.store.Transition(ctx, item.ID, next)
		require.NoError(t, err, "to %s", next)
		assert.Equal(t, next, got.Status)
	}

	stored, err := GetAs[*models.OrderProduct](ctx, h.store, item.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderProductStatusDelivered, stored.Status)
	assert.False(t, stored.UpdatedAt.Before(stored.CreatedAt))

	for _, next := range enums.OrderProductStatuses() {
		_, err := h.store.Transition(ctx, item.ID, next)
		requireCode(t, err, pkgerrors.CodeInvalidTransition)
	}
}

func TestTransitionCancellation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fromPending := newOrderProduct(t, h)
	_, err := h.store.Transition(ctx, fromPending.ID, enums.OrderProductStatusCancelled)
	require.NoError(t, err)
	_, err = h.store.Transition(ctx, fromPending.ID, enums.OrderProductStatusProcessing)
	requireCode(t, err, pkgerrors.CodeInvalidTransition)

	fromProcessing := newOrderProduct(t, h)
	_, err = h.store.Transition(ctx, fromProcessing.ID, enums.OrderProductStatusProcessing)
	require.NoError(t, err)
	_, err = h.store.Transition(ctx, fromProcessing.ID, enums.OrderProductStatusCancelled)
	require.NoError(t, err)

	fromShipped := newOrderProduct(t, h)
	_, err = h.store.Transition(ctx, fromShipped.ID, enums.OrderProductStatusProcessing)
	require.NoError(t, err)
	_, err = h.store.Transition(ctx, fromShipped.ID, enums.OrderProductStatusShipped)
	require.NoError(t, err)
	typed := requireCode(t, h.transitionErr(ctx, fromShipped.ID, enums.OrderProductStatusCancelled), pkgerrors.CodeInvalidTransition)
	assert.Equal(t, "status", typed.Field())
}

func TestTransitionRejectsSkipsAndUnknownStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := newOrderProduct(t, h)

	requireCode(t, h.transitionErr(ctx, item.ID, enums.OrderProductStatusShipped), pkgerrors.CodeInvalidTransition)
	requireCode(t, h.transitionErr(ctx, item.ID, enums.OrderProductStatusPending), pkgerrors.CodeInvalidTransition)
	requireCode(t, h.transitionErr(ctx, item.ID, enums.OrderProductStatus("lost")), pkgerrors.CodeEnumViolation)
	requireCode(t, h.transitionErr(ctx, uuid.New(), enums.OrderProductStatusProcessing), pkgerrors.CodeNotFound)
}

func TestConcurrentTransitionsHaveOneWinner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := newOrderProduct(t, h)
	_, err := h.store.Transition(ctx, item.ID, enums.OrderProductStatusProcessing)
	require.NoError(t, err)

	const racers = 4
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.transitionErr(ctx, item.ID, enums.OrderProductStatusShipped)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidTransition), "unexpected error %v", err)
	}
	assert.Equal(t, 1, wins)
}

func (h harness) transitionErr(ctx context.Context, id uuid.UUID, next enums.OrderProductStatus) error {
	_, err := h.store.Transition(ctx, id, next)
	return err
}
