package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/db/models"
)

// AutoMigrate builds the marketplace tables from the model definitions. It backs
// SQLite databases (local runs and tests), where the goose SQL cannot apply.
func AutoMigrate(ctx context.Context, conn *gorm.DB) error {
	all := models.All()
	targets := make([]any, 0, len(all))
	for _, model := range all {
		targets = append(targets, model)
	}
	if err := conn.WithContext(ctx).AutoMigrate(targets...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}
	return nil
}
