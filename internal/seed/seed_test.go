package seed

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/internal/app"
	"github.com/angelmondragon/vendora/internal/catalog"
	"github.com/angelmondragon/vendora/pkg/config"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

func newApp(t *testing.T) *app.App {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev},
		DB: config.DBConfig{
			Driver: config.DriverSQLite,
			DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString()),
		},
		Password:     config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		FeatureFlags: config.FeatureFlagsConfig{UseSQLite: true, AutoMigrate: true},
	}
	a, err := app.New(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestRunSeedsMarketplace(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	summary, err := Run(ctx, a, "demo-password")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Products)
	assert.Regexp(t, `^\d{8}-000001$`, summary.OrderNumber)

	buyer, err := a.Users.GetByEmail(ctx, summary.BuyerEmail)
	require.NoError(t, err)
	require.NotNil(t, buyer.DefaultShippingAddressID)
	require.NotNil(t, buyer.DefaultCardID)

	orders, err := a.Catalog.Orders(ctx, catalog.OrderFilter{UserID: &buyer.ID})
	require.NoError(t, err)
	require.Len(t, orders.Items, 1)
	require.NotNil(t, orders.Items[0].CardSnapshot)

	processing, err := a.Catalog.OrderProducts(ctx, catalog.OrderProductFilter{Status: enums.OrderProductStatusProcessing})
	require.NoError(t, err)
	assert.Len(t, processing, 1)

	vendor, err := a.Users.GetByEmail(ctx, summary.VendorEmail)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleVendor, vendor.Role)
}

func TestRunTwiceFailsOnUniqueEmail(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	_, err := Run(ctx, a, "demo-password")
	require.NoError(t, err)
	_, err = Run(ctx, a, "demo-password")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUniqueViolation))
}
