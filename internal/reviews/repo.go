package reviews

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/internal/repo"
	"github.com/angelmondragon/vendora/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Repository aggregates product review reads.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

type summaryRow struct {
	Count   int64
	Average float64
}

// Summary computes the rating count and mean for a product via product_reviews_product_id_idx.
func (r *Repository) Summary(ctx context.Context, productID uuid.UUID) (Summary, error) {
	var row summaryRow
	err := r.base.DB(ctx).
		Model(&models.ProductReview{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarise reviews")
	}
	return Summary{
		ProductID: productID,
		Count:     row.Count,
		Average:   decimal.NewFromFloat(row.Average).Round(2),
	}, nil
}
