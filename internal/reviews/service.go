package reviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Service manages buyer reviews of products.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.ProductReview, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
	Summary(ctx context.Context, productID uuid.UUID) (Summary, error)
}

// CreateInput holds a buyer's rating of a product.
type CreateInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Comment   string
	Images    *string
}

// Summary is the aggregate rating of one product.
type Summary struct {
	ProductID uuid.UUID       `json:"product_id"`
	Count     int64           `json:"count"`
	Average   decimal.Decimal `json:"average"`
}

type service struct {
	store *integrity.Store
	repo  *Repository
}

func NewService(store *integrity.Store, repo *Repository) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("integrity store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	return &service{store: store, repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ProductReview, error) {
	review := &models.ProductReview{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		Images:    input.Images,
	}
	if err := s.store.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review written by userID.
func (s *service) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	return s.store.Atomic(ctx, "delete_review", func(tx *integrity.Tx) error {
		review, err := integrity.TxGetAs[*models.ProductReview](tx, reviewID)
		if err != nil {
			return err
		}
		if review.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product_review not found")
		}
		return tx.Delete(enums.EntityKindProductReview, reviewID)
	})
}

func (s *service) Summary(ctx context.Context, productID uuid.UUID) (Summary, error) {
	return s.repo.Summary(ctx, productID)
}
