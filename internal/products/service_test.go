package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/dbtest"
	"github.com/angelmondragon/vendora/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

func newService(t *testing.T) (Service, *dbtest.Fixtures) {
	t.Helper()
	client := dbtest.Open(t)
	store, err := integrity.New(integrity.Params{DB: client})
	require.NoError(t, err)
	svc, err := NewService(store, NewRepository(client.DB()))
	require.NoError(t, err)
	return svc, dbtest.NewFixtures(t, client.DB())
}

func sandalInput() CreateProductInput {
	sub := " Sandals "
	return CreateProductInput{
		Name:        "Leather Sandal",
		Description: "hand-stitched",
		Stock:       5,
		Price:       decimal.RequireFromString("9.99"),
		Category:    "Shoes",
		SubCategory: &sub,
		Media:       "https://cdn.example.com/sandal.png",
		Options: []OptionInput{
			{Name: "Size", Values: []string{"40", " 41", "", "42"}},
			{Name: "Colour", Values: []string{"brown", "black"}},
		},
	}
}

func TestCreateProductWithOptions(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	shop := fx.Shop(fx.User().ID)

	created, err := svc.CreateProduct(ctx, shop.ID, sandalInput())
	require.NoError(t, err)
	assert.Equal(t, "shoes", created.Category)
	require.NotNil(t, created.SubCategory)
	assert.Equal(t, "sandals", *created.SubCategory)
	require.Len(t, created.Options, 2)
	assert.Equal(t, []string{"40", "41", "42"}, created.Options[0].Values)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Options, 2)
	assert.Equal(t, "Colour", got.Options[0].Name)
}

func TestCreateProductRollsBackOnOptionConflict(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	shop := fx.Shop(fx.User().ID)

	_, err := svc.CreateProduct(ctx, shop.ID, sandalInput())
	require.NoError(t, err)

	second := sandalInput()
	second.Name = "Canvas Sandal"
	_, err = svc.CreateProduct(ctx, shop.ID, second)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUniqueViolation), "option names are globally unique")

	var count int64
	require.NoError(t, fx.DB().Model(&models.Product{}).Where("name = ?", "Canvas Sandal").Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdjustStockNeverNegative(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	product := fx.Product(fx.Shop(fx.User().ID).ID)

	got, err := svc.AdjustStock(ctx, product.ID, -10)
	require.NoError(t, err)
	assert.Zero(t, got.Stock)

	_, err = svc.AdjustStock(ctx, product.ID, -1)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRangeViolation))

	got, err = svc.AdjustStock(ctx, product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stock)
}

func TestDisabledProductIsFrozen(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	product := fx.Product(fx.Shop(fx.User().ID).ID)

	require.NoError(t, svc.DisableProduct(ctx, product.ID))
	got, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.Disabled)

	price := decimal.RequireFromString("5")
	_, err = svc.UpdateProduct(ctx, product.ID, UpdateProductInput{Price: &price})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.AddOption(ctx, product.ID, OptionInput{Name: "Width", Values: []string{"wide"}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForeignKeyViolation))
}

func TestOptionLifecycle(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	product := fx.Product(fx.Shop(fx.User().ID).ID)

	option, err := svc.AddOption(ctx, product.ID, OptionInput{Name: "Size", Values: []string{"S", "M"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M"}, option.Values)

	require.NoError(t, svc.RemoveOption(ctx, option.ID))
	err = svc.RemoveOption(ctx, option.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
