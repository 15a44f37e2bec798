package integrity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

func TestDeleteDisablesRootsInPlace(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.fx.User()
	shop := h.fx.Shop(user.ID)
	product := h.fx.Product(shop.ID)
	option := &models.ProductOption{ProductID: product.ID, Name: "Size", Details: "40,41,42"}
	require.NoError(t, h.store.Create(ctx, option))

	require.NoError(t, h.store.Delete(ctx, enums.EntityKindProduct, product.ID))
	gotProduct, err := GetAs[*models.Product](ctx, h.store, product.ID)
	require.NoError(t, err)
	assert.True(t, gotProduct.Disabled)
	_, err = GetAs[*models.ProductOption](ctx, h.store, option.ID)
	require.NoError(t, err, "options survive a disabled product")

	require.NoError(t, h.store.Delete(ctx, enums.EntityKindShop, shop.ID))
	gotShop, err := GetAs[*models.Shop](ctx, h.store, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ShopStatusDeleted, gotShop.Status)

	require.NoError(t, h.store.Delete(ctx, enums.EntityKindUser, user.ID))
	gotUser, err := GetAs[*models.User](ctx, h.store, user.ID)
	require.NoError(t, err)
	assert.False(t, gotUser.IsActive)
}

func TestDeleteMissingRow(t *testing.T) {
	h := newHarness(t)
	requireCode(t, h.store.Delete(context.Background(), enums.EntityKindOrder, uuid.New()), pkgerrors.CodeNotFound)
}

func TestDeleteOrderRestrictedByDependents(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.fx.User()
	product := h.fx.Product(h.fx.Shop(user.ID).ID)
	order := h.fx.Order(user.ID, h.fx.Address(user.ID).ID)
	item := h.fx.OrderProduct(order.ID, product.ID)

	typed := requireCode(t, h.store.Delete(ctx, enums.EntityKindOrder, order.ID), pkgerrors.CodeForeignKeyViolation)
	assert.Equal(t, "order_id", typed.Field())

	require.NoError(t, h.store.Delete(ctx, enums.EntityKindOrderProduct, item.ID))

	note := &models.Notification{UserID: user.ID, OrderID: order.ID, Title: "Placed", Message: "Order placed"}
	require.NoError(t, h.store.Create(ctx, note))
	requireCode(t, h.store.Delete(ctx, enums.EntityKindOrder, order.ID), pkgerrors.CodeForeignKeyViolation)

	require.NoError(t, h.store.Delete(ctx, enums.EntityKindNotification, note.ID))
	require.NoError(t, h.store.Delete(ctx, enums.EntityKindOrder, order.ID))
	_, err := h.store.Get(ctx, enums.EntityKindOrder, order.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteCartCascadesEntries(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.fx.User()
	shop := h.fx.Shop(user.ID)
	first := h.fx.Product(shop.ID)
	second := h.fx.Product(shop.ID)

	cart := &models.Cart{UserID: user.ID}
	require.NoError(t, h.store.Create(ctx, cart))
	entry := &models.CartProduct{CartID: cart.ID, ProductID: first.ID, Quantity: 1}
	require.NoError(t, h.store.Create(ctx, entry))
	require.NoError(t, h.store.Create(ctx, &models.CartProduct{CartID: cart.ID, ProductID: second.ID, Quantity: 2}))

	require.NoError(t, h.store.Delete(ctx, enums.EntityKindCart, cart.ID))
	_, err := h.store.Get(ctx, enums.EntityKindCartProduct, entry.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	saved := &models.Saved{UserID: user.ID}
	require.NoError(t, h.store.Create(ctx, saved))
	kept := &models.SavedProduct{SavedID: saved.ID, ProductID: first.ID}
	require.NoError(t, h.store.Create(ctx, kept))
	require.NoError(t, h.store.Delete(ctx, enums.EntityKindSaved, saved.ID))
	_, err = h.store.Get(ctx, enums.EntityKindSavedProduct, kept.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteAddressDetachesOrdersWithSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.fx.User()
	address := h.fx.Address(user.ID)
	order := h.fx.Order(user.ID, address.ID)

	require.NoError(t, h.store.Delete(ctx, enums.EntityKindShippingAddress, address.ID))

	got, err := GetAs[*models.Order](ctx, h.store, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AddressID)
	require.NotNil(t, got.ShippingSnapshot)
	assert.Equal(t, address.Address, got.ShippingSnapshot.Address)

	// a detached order stays editable
	_, err = UpdateAs(ctx, h.store, order.ID, func(o *models.Order) error {
		o.PaymentMethod = enums.PaymentMethodPaymentOnDelivery
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteCardKeepsOrderSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.fx.User()
	address := h.fx.Address(user.ID)
	card := h.fx.Card(user.ID)

	order := &models.Order{OrderNumber: "20260103-000001", UserID: user.ID, PaymentMethod: enums.PaymentMethodCard, AddressID: &address.ID, CardID: &card.ID}
	require.NoError(t, h.store.Create(ctx, order))

	require.NoError(t, h.store.Delete(ctx, enums.EntityKindCard, card.ID))

	got, err := GetAs[*models.Order](ctx, h.store, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CardID)
	require.NotNil(t, got.CardSnapshot)
	assert.Equal(t, "1111", got.CardSnapshot.LastFour)
	assert.Equal(t, enums.PaymentMethodCard, got.PaymentMethod)
}

func TestDeleteCurrentDefaultIsRestricted(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.fx.User()
	address := h.fx.Address(user.ID)
	card := h.fx.Card(user.ID)

	_, err := h.store.SetDefault(ctx, user.ID, enums.EntityKindShippingAddress, address.ID)
	require.NoError(t, err)
	_, err = h.store.SetDefault(ctx, user.ID, enums.EntityKindCard, card.ID)
	require.NoError(t, err)

	typed := requireCode(t, h.store.Delete(ctx, enums.EntityKindShippingAddress, address.ID), pkgerrors.CodeForeignKeyViolation)
	assert.Equal(t, "default_shipping_address_id", typed.Field())
	requireCode(t, h.store.Delete(ctx, enums.EntityKindCard, card.ID), pkgerrors.CodeForeignKeyViolation)

	_, err = h.store.ClearDefault(ctx, user.ID, enums.EntityKindShippingAddress)
	require.NoError(t, err)
	require.NoError(t, h.store.Delete(ctx, enums.EntityKindShippingAddress, address.ID))
}

func TestTxDeleteJoinsEnclosingTransaction(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.fx.User()
	product := h.fx.Product(h.fx.Shop(user.ID).ID)
	cart := &models.Cart{UserID: user.ID}
	require.NoError(t, h.store.Create(ctx, cart))
	entry := &models.CartProduct{CartID: cart.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, h.store.Create(ctx, entry))

	err := h.store.Atomic(ctx, "test", func(tx *Tx) error {
		if err := tx.Delete(enums.EntityKindCartProduct, entry.ID); err != nil {
			return err
		}
		_, err := tx.Get(enums.EntityKindOrder, uuid.New())
		return err
	})
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = h.store.Get(ctx, enums.EntityKindCartProduct, entry.ID)
	require.NoError(t, err, "rolled back delete leaves the entry")
}
