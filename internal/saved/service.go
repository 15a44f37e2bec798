package saved

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/internal/repo"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Service manages a user's saved-for-later product list.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) (*models.SavedProduct, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]models.SavedProduct, error)
}

type service struct {
	store *integrity.Store
	base  repo.Base
}

func NewService(store *integrity.Store, db *gorm.DB) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("integrity store required")
	}
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{store: store, base: repo.NewBase(db)}, nil
}

// Add saves a product, creating the list on first use. Saving twice is a UNIQUE_VIOLATION.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*models.SavedProduct, error) {
	var item *models.SavedProduct
	err := s.store.Atomic(ctx, "save_product", func(tx *integrity.Tx) error {
		list, err := findList(tx.DB(), userID)
		if err != nil {
			return err
		}
		if list == nil {
			list = &models.Saved{UserID: userID}
			if err := tx.Create(list); err != nil {
				return err
			}
		}
		item = &models.SavedProduct{SavedID: list.ID, ProductID: productID}
		return tx.Create(item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return s.store.Atomic(ctx, "unsave_product", func(tx *integrity.Tx) error {
		var item models.SavedProduct
		err := tx.DB().
			Joins("JOIN saved ON saved.id = saved_products.saved_id").
			Where("saved.user_id = ? AND saved_products.product_id = ?", userID, productID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "saved_product not found").
				WithDetails(map[string]any{"kind": enums.EntityKindSavedProduct.String(), "product_id": productID.String()})
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load saved product")
		}
		return tx.Delete(enums.EntityKindSavedProduct, item.ID)
	})
}

// List returns saved products newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.SavedProduct, error) {
	var rows []models.SavedProduct
	err := s.base.DB(ctx).
		Joins("JOIN saved ON saved.id = saved_products.saved_id").
		Where("saved.user_id = ?", userID).
		Order("saved_products.created_at DESC").Order("saved_products.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list saved products")
	}
	return rows, nil
}

func findList(db *gorm.DB, userID uuid.UUID) (*models.Saved, error) {
	var list models.Saved
	err := db.Where("user_id = ?", userID).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load saved list")
	}
	return &list, nil
}
