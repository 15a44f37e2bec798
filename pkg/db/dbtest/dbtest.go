// Package dbtest opens throwaway SQLite databases carrying the marketplace
// schema and seeds rows for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/pkg/config"
	"github.com/angelmondragon/vendora/pkg/db"
	"github.com/angelmondragon/vendora/pkg/migrate"
)

// Open returns a client on a private in-memory database with every table built.
func Open(t testing.TB) *db.Client {
	t.Helper()

	cfg := config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString()),
	}
	client, err := db.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := migrate.AutoMigrate(context.Background(), client.DB()); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return client
}
