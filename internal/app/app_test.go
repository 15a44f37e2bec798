package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/internal/users"
	"github.com/angelmondragon/vendora/pkg/config"
	"github.com/angelmondragon/vendora/pkg/enums"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, LogLevel: "debug"},
		DB: config.DBConfig{
			Driver: config.DriverSQLite,
			DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString()),
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8 * 1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		FeatureFlags: config.FeatureFlagsConfig{UseSQLite: true, AutoMigrate: true},
	}
}

func TestNewWiresServicesOnSQLite(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	a, err := New(ctx, sqliteConfig(), nil, reg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })
	assert.Nil(t, a.Redis)

	user, err := a.Users.Register(ctx, users.RegisterInput{
		FullName: "Ada Obi",
		Email:    "ada@example.com",
		Password: "correct-horse",
		Role:     enums.UserRoleUser,
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["integrity_operation_total"])
	assert.True(t, names["integrity_operation_duration_seconds"])
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil, nil, nil)
	assert.Error(t, err)
}
