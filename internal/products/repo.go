package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/internal/repo"
	"github.com/angelmondragon/vendora/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Repository exposes product and option reads.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return repo.FindByID[models.Product](ctx, r.base, id, "product")
}

// ListOptions returns a product's options through product_options_product_id_idx.
func (r *Repository) ListOptions(ctx context.Context, productID uuid.UUID) ([]models.ProductOption, error) {
	var options []models.ProductOption
	if err := r.base.DB(ctx).
		Where("product_id = ?", productID).
		Order("name ASC").
		Find(&options).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product options")
	}
	return options, nil
}
