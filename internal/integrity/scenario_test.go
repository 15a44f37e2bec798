package integrity

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

func TestMarketplaceLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u1 := newUser("a@x.com")
	require.NoError(t, h.store.Create(ctx, u1))
	requireCode(t, h.store.Create(ctx, newUser("a@x.com")), pkgerrors.CodeUniqueViolation)

	s1 := newShop(u1.ID, "shop1")
	require.NoError(t, h.store.Create(ctx, s1))

	p1 := newProduct(s1.ID, "P1", "9.99", 10)
	require.NoError(t, h.store.Create(ctx, p1))
	require.True(t, p1.Price.Equal(decimal.RequireFromString("9.99")))

	address := &models.ShippingAddress{
		UserID: u1.ID, FullName: "Ada Obi", PhoneNumber: "08031234567",
		Address: "12 Marina Road", City: "Lagos", State: "Lagos",
	}
	require.NoError(t, h.store.Create(ctx, address))

	o1 := &models.Order{
		OrderNumber:   "20260104-000001",
		UserID:        u1.ID,
		PaymentMethod: enums.PaymentMethodPaymentOnDelivery,
		AddressID:     &address.ID,
		TotalAmount:   decimal.RequireFromString("19.98"),
	}
	require.NoError(t, h.store.Create(ctx, o1))

	line := &models.OrderProduct{OrderID: o1.ID, ProductID: p1.ID, Quantity: 2, Status: enums.OrderProductStatusPending}
	require.NoError(t, h.store.Create(ctx, line))

	_, err := h.store.Transition(ctx, line.ID, enums.OrderProductStatusProcessing)
	require.NoError(t, err)
	_, err = h.store.Transition(ctx, line.ID, enums.OrderProductStatusShipped)
	require.NoError(t, err)
	requireCode(t, h.transitionErr(ctx, line.ID, enums.OrderProductStatusCancelled), pkgerrors.CodeInvalidTransition)
}
