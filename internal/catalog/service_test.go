package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/pkg/db/dbtest"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/pagination"
)

func newService(t *testing.T) (*Service, *dbtest.Fixtures) {
	t.Helper()
	client := dbtest.Open(t)
	return NewService(client.DB()), dbtest.NewFixtures(t, client.DB())
}

func collect[T any](t *testing.T, fetch func(cursor string) (*pagination.Page[T], error)) []T {
	t.Helper()
	var out []T
	cursor := ""
	for i := 0; i < 20; i++ {
		page, err := fetch(cursor)
		require.NoError(t, err)
		out = append(out, page.Items...)
		if page.NextCursor == "" {
			return out
		}
		cursor = page.NextCursor
	}
	t.Fatal("pagination did not terminate")
	return nil
}

func TestProductsFilterAndPage(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	shop := fx.Shop(fx.User().ID)
	other := fx.Shop(fx.User().ID)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		ids = append(ids, fx.Product(shop.ID).ID)
	}
	fx.Product(other.ID)
	require.NoError(t, fx.DB().Model(&models.Product{}).Where("id = ?", ids[0]).Update("disabled", true).Error)
	require.NoError(t, fx.DB().Model(&models.Product{}).Where("id = ?", ids[1]).Update("category", "bags").Error)

	rows := collect(t, func(cursor string) (*pagination.Page[models.Product], error) {
		return svc.Products(ctx, ProductFilter{ShopID: &shop.ID, Params: pagination.Params{Limit: 2, Cursor: cursor}})
	})
	assert.Len(t, rows, 4, "disabled products are hidden")
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].UpdatedAt.After(rows[i-1].UpdatedAt), "newest first")
	}

	all, err := svc.Products(ctx, ProductFilter{ShopID: &shop.ID, IncludeDisabled: true})
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)

	bags, err := svc.Products(ctx, ProductFilter{Category: " BAGS "})
	require.NoError(t, err)
	require.Len(t, bags.Items, 1)
	assert.Equal(t, ids[1], bags.Items[0].ID)

	_, err = svc.Products(ctx, ProductFilter{Params: pagination.Params{Cursor: "not-a-cursor"}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestOrdersByUserRangeAndPayment(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	buyer := fx.User()
	address := fx.Address(buyer.ID)

	old := fx.Order(buyer.ID, address.ID)
	recent := fx.Order(buyer.ID, address.ID)
	card := fx.Card(buyer.ID)
	require.NoError(t, fx.DB().Model(old).Update("created_at", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)).Error)
	require.NoError(t, fx.DB().Model(recent).Updates(map[string]any{"payment_method": enums.PaymentMethodCard, "card_id": card.ID}).Error)
	otherBuyer := fx.User()
	fx.Order(otherBuyer.ID, fx.Address(otherBuyer.ID).ID)

	mine, err := svc.Orders(ctx, OrderFilter{UserID: &buyer.ID})
	require.NoError(t, err)
	require.Len(t, mine.Items, 2)
	assert.Equal(t, recent.ID, mine.Items[0].ID)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	since, err := svc.Orders(ctx, OrderFilter{UserID: &buyer.ID, From: &from})
	require.NoError(t, err)
	require.Len(t, since.Items, 1)
	assert.Equal(t, recent.ID, since.Items[0].ID)

	byCard, err := svc.Orders(ctx, OrderFilter{PaymentMethod: enums.PaymentMethodCard})
	require.NoError(t, err)
	require.Len(t, byCard.Items, 1)

	_, err = svc.Orders(ctx, OrderFilter{PaymentMethod: "cheque"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeEnumViolation))

	_, err = svc.Orders(ctx, OrderFilter{From: &from, To: &from})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestOrderProductsByStatus(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	buyer := fx.User()
	order := fx.Order(buyer.ID, fx.Address(buyer.ID).ID)
	shop := fx.Shop(fx.User().ID)
	first := fx.OrderProduct(order.ID, fx.Product(shop.ID).ID)
	fx.OrderProduct(order.ID, fx.Product(shop.ID).ID)
	require.NoError(t, fx.DB().Model(first).Update("status", enums.OrderProductStatusShipped).Error)

	lines, err := svc.OrderProducts(ctx, OrderProductFilter{OrderID: &order.ID})
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	shipped, err := svc.OrderProducts(ctx, OrderProductFilter{Status: enums.OrderProductStatusShipped})
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, first.ID, shipped[0].ID)

	_, err = svc.OrderProducts(ctx, OrderProductFilter{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	_, err = svc.OrderProducts(ctx, OrderProductFilter{Status: "lost"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeEnumViolation))
}

func TestShopsReviewsAndOptions(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	owner := fx.User()
	shop := fx.Shop(owner.ID)
	fx.Shop(fx.User().ID)
	product := fx.Product(shop.ID)

	byType, err := svc.Shops(ctx, ShopFilter{Type: enums.ShopTypeProducts})
	require.NoError(t, err)
	assert.Len(t, byType.Items, 2)

	byOwner, err := svc.Shops(ctx, ShopFilter{UserID: &owner.ID, Category: "Fashion"})
	require.NoError(t, err)
	require.Len(t, byOwner.Items, 1)
	assert.Equal(t, shop.ID, byOwner.Items[0].ID)

	_, err = svc.Shops(ctx, ShopFilter{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	for _, rating := range []int{5, 3, 5} {
		review := &models.ProductReview{ProductID: product.ID, UserID: fx.User().ID, Rating: rating, Comment: "ok"}
		require.NoError(t, fx.DB().Create(review).Error)
	}
	fives, err := svc.Reviews(ctx, ReviewFilter{ProductID: &product.ID, Rating: 5})
	require.NoError(t, err)
	assert.Len(t, fives.Items, 2)

	_, err = svc.Reviews(ctx, ReviewFilter{Rating: 9})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRangeViolation))

	require.NoError(t, fx.DB().Create(&models.ProductOption{ProductID: product.ID, Name: "Size", Details: "S,M"}).Error)
	options, err := svc.Options(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, []string{"S", "M"}, options[0].Values())
}
