package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/internal/repo"
	"github.com/angelmondragon/vendora/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Repository loads orders with their lines.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return repo.FindByID[models.Order](ctx, r.base, id, "order")
}

// Items lists an order's lines through order_products_order_id_idx.
func (r *Repository) Items(ctx context.Context, orderID uuid.UUID) ([]models.OrderProduct, error) {
	return items(r.base.DB(ctx), orderID)
}

func items(db *gorm.DB, orderID uuid.UUID) ([]models.OrderProduct, error) {
	var rows []models.OrderProduct
	if err := db.Where("order_id = ?", orderID).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order products")
	}
	return rows, nil
}
