package carts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/internal/repo"
	"github.com/angelmondragon/vendora/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Repository reads carts and their line items.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// FindByUser returns the user's cart or nil when none exists yet.
func FindByUser(db *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return &cart, nil
}

// Items lists the products in a cart, oldest first.
func Items(db *gorm.DB, cartID uuid.UUID) ([]models.CartProduct, error) {
	var rows []models.CartProduct
	if err := db.Where("cart_id = ?", cartID).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	return rows, nil
}

func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return FindByUser(r.base.DB(ctx), userID)
}

func (r *Repository) Items(ctx context.Context, cartID uuid.UUID) ([]models.CartProduct, error) {
	return Items(r.base.DB(ctx), cartID)
}

func findItem(db *gorm.DB, cartID, productID uuid.UUID) (*models.CartProduct, error) {
	var item models.CartProduct
	err := db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	return &item, nil
}

// AbandonedCarts lists carts untouched since cutoff that hold no items, oldest first.
func (r *Repository) AbandonedCarts(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.base.DB(ctx).
		Model(&models.Cart{}).
		Where("updated_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM cart_products cp WHERE cp.cart_id = carts.id)").
		Order("updated_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list abandoned carts")
	}
	return ids, nil
}
