package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/dbtest"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

var placedAt = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type stubCounter struct {
	values []int64
	keys   []string
}

func (c *stubCounter) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.keys = append(c.keys, key)
	next := c.values[0]
	c.values = c.values[1:]
	return next, nil
}

func (c *stubCounter) CounterKey(parts ...string) string {
	return "vendora:counter:" + strings.Join(parts, ":")
}

type harness struct {
	svc   Service
	store *integrity.Store
	fx    *dbtest.Fixtures
	buyer *models.User
	addr  *models.ShippingAddress
	shop  *models.Shop
}

func newHarness(t *testing.T, counter Counter) harness {
	t.Helper()
	client := dbtest.Open(t)
	store, err := integrity.New(integrity.Params{DB: client})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Store:   store,
		Repo:    NewRepository(client.DB()),
		Counter: counter,
		Now:     func() time.Time { return placedAt },
	})
	require.NoError(t, err)

	fx := dbtest.NewFixtures(t, client.DB())
	buyer := fx.User()
	return harness{
		svc:   svc,
		store: store,
		fx:    fx,
		buyer: buyer,
		addr:  fx.Address(buyer.ID),
		shop:  fx.Shop(fx.User().ID),
	}
}

func (h harness) bankTransfer(items ...ItemInput) PlaceOrderInput {
	return PlaceOrderInput{PaymentMethod: enums.PaymentMethodBankTransfer, AddressID: h.addr.ID, Items: items}
}

func (h harness) stock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	product, err := integrity.GetAs[*models.Product](context.Background(), h.store, productID)
	require.NoError(t, err)
	return product.Stock
}

func (h harness) notificationCount(t *testing.T, orderID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.fx.DB().Model(&models.Notification{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}

func TestPlaceOrderTotalsAndReservesStock(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	first := h.fx.Product(h.shop.ID)
	second := h.fx.Product(h.shop.ID)

	order, err := h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(
		ItemInput{ProductID: first.ID, Quantity: 3},
		ItemInput{ProductID: second.ID, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, "20260315-000001", order.OrderNumber)
	assert.Equal(t, "6000.00", order.TotalAmount.StringFixed(2))
	require.NotNil(t, order.ShippingSnapshot)
	assert.Equal(t, h.addr.FullName, order.ShippingSnapshot.FullName)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.Equal(t, enums.OrderProductStatusPending, item.Status)
	}
	assert.Equal(t, 7, h.stock(t, first.ID))
	assert.Equal(t, 9, h.stock(t, second.ID))
	assert.EqualValues(t, 2, h.notificationCount(t, order.ID), "buyer and vendor are notified")

	next, err := h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(ItemInput{ProductID: first.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, "20260315-000002", next.OrderNumber)

	got, err := h.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestPlaceOrderRollsBackOnShortStock(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	plenty := h.fx.Product(h.shop.ID)
	scarce := h.fx.Product(h.shop.ID)

	_, err := h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(
		ItemInput{ProductID: plenty.ID, Quantity: 2},
		ItemInput{ProductID: scarce.ID, Quantity: 11},
	))
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRangeViolation))
	assert.Equal(t, 10, h.stock(t, plenty.ID))

	var orders int64
	require.NoError(t, h.fx.DB().Model(&models.Order{}).Where("user_id = ?", h.buyer.ID).Count(&orders).Error)
	assert.Zero(t, orders)

	_, err = h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(ItemInput{ProductID: plenty.ID, Quantity: 0}))
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRangeViolation))
}

func TestPlaceOrderRejectsDisabledProduct(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	product := h.fx.Product(h.shop.ID)
	require.NoError(t, h.store.Delete(ctx, enums.EntityKindProduct, product.ID))

	_, err := h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(ItemInput{ProductID: product.ID, Quantity: 1}))
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForeignKeyViolation))
}

func TestPlaceOrderCardRules(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	product := h.fx.Product(h.shop.ID)
	line := ItemInput{ProductID: product.ID, Quantity: 1}

	byCard := h.bankTransfer(line)
	byCard.PaymentMethod = enums.PaymentMethodCard
	_, err := h.svc.PlaceOrder(ctx, h.buyer.ID, byCard)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRequiredField))

	foreign := h.fx.Card(h.fx.User().ID)
	byCard.CardID = &foreign.ID
	_, err = h.svc.PlaceOrder(ctx, h.buyer.ID, byCard)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForeignKeyViolation))

	own := h.fx.Card(h.buyer.ID)
	byTransfer := h.bankTransfer(line)
	byTransfer.CardID = &own.ID
	_, err = h.svc.PlaceOrder(ctx, h.buyer.ID, byTransfer)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRequiredField))

	byCard.CardID = &own.ID
	order, err := h.svc.PlaceOrder(ctx, h.buyer.ID, byCard)
	require.NoError(t, err)
	require.NotNil(t, order.CardSnapshot)
	assert.Equal(t, own.LastFour(), order.CardSnapshot.LastFour)
	assert.Equal(t, 9, h.stock(t, product.ID))
}

func TestOrderNumberCounterRetriesCollision(t *testing.T) {
	counter := &stubCounter{values: []int64{1, 2}}
	h := newHarness(t, counter)
	ctx := context.Background()
	product := h.fx.Product(h.shop.ID)

	existing := h.fx.Order(h.buyer.ID, h.addr.ID)
	require.NoError(t, h.fx.DB().Model(existing).Update("order_number", "20260315-000001").Error)

	order, err := h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(ItemInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, "20260315-000002", order.OrderNumber)
	assert.Equal(t, []string{
		"vendora:counter:order_number:20260315",
		"vendora:counter:order_number:20260315",
	}, counter.keys)
	assert.Equal(t, 9, h.stock(t, product.ID), "the rolled back attempt released its stock")
}

func TestOrderNumberFallbackPastSixDigits(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	product := h.fx.Product(h.shop.ID)

	for _, number := range []string{"20260315-999999", "20260315-1000000", "20260314-2000000"} {
		existing := h.fx.Order(h.buyer.ID, h.addr.ID)
		require.NoError(t, h.fx.DB().Model(existing).Update("order_number", number).Error)
	}

	order, err := h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(ItemInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, "20260315-1000001", order.OrderNumber)
}

func TestTransitionItemNotifiesAndRestocks(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	product := h.fx.Product(h.shop.ID)
	order, err := h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(ItemInput{ProductID: product.ID, Quantity: 4}))
	require.NoError(t, err)
	itemID := order.Items[0].ID
	assert.Equal(t, 6, h.stock(t, product.ID))

	item, err := h.svc.TransitionItem(ctx, itemID, enums.OrderProductStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderProductStatusProcessing, item.Status)
	assert.EqualValues(t, 3, h.notificationCount(t, order.ID))

	_, err = h.svc.TransitionItem(ctx, itemID, enums.OrderProductStatusDelivered)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidTransition))
	assert.EqualValues(t, 3, h.notificationCount(t, order.ID))

	_, err = h.svc.TransitionItem(ctx, itemID, enums.OrderProductStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 10, h.stock(t, product.ID))

	_, err = h.svc.TransitionItem(ctx, itemID, enums.OrderProductStatusProcessing)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidTransition))
}

func TestChangeAddressRefreshesSnapshot(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	product := h.fx.Product(h.shop.ID)
	order, err := h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(ItemInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)

	moved := h.fx.Address(h.buyer.ID)
	require.NoError(t, h.fx.DB().Model(moved).Update("city", "Abuja").Error)

	_, err = h.svc.ChangeAddress(ctx, h.fx.User().ID, order.ID, moved.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	updated, err := h.svc.ChangeAddress(ctx, h.buyer.ID, order.ID, moved.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ShippingSnapshot)
	assert.Equal(t, "Abuja", updated.ShippingSnapshot.City)

	stranger := h.fx.Address(h.fx.User().ID)
	_, err = h.svc.ChangeAddress(ctx, h.buyer.ID, order.ID, stranger.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForeignKeyViolation))
}

func TestDeleteOrderWithLinesIsRestricted(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	product := h.fx.Product(h.shop.ID)
	order, err := h.svc.PlaceOrder(ctx, h.buyer.ID, h.bankTransfer(ItemInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)

	err = h.svc.Delete(ctx, order.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForeignKeyViolation))

	bare := h.fx.Order(h.buyer.ID, h.addr.ID)
	require.NoError(t, h.svc.Delete(ctx, bare.ID))
	_, err = h.svc.Get(ctx, bare.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestParseSequence(t *testing.T) {
	assert.EqualValues(t, 42, parseSequence("20260315-000042"))
	assert.Zero(t, parseSequence(""))
	assert.Zero(t, parseSequence("garbage"))
	assert.Equal(t, "20260315-000007", formatNumber("20260315", 7))
	assert.Equal(t, "20260315-1000000", formatNumber("20260315", 1000000))
	assert.EqualValues(t, 1000000, parseSequence("20260315-1000000"))
}
