package shops

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Service exposes shop operations.
type Service interface {
	Open(ctx context.Context, input CreateShopInput) (*ShopDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ShopDTO, error)
	GetByOwner(ctx context.Context, userID uuid.UUID) (*ShopDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateShopInput) (*ShopDTO, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ShopStatus) (*ShopDTO, error)
	Close(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store *integrity.Store
	repo  *Repository
}

// NewService builds a shop service with the provided store and repository.
func NewService(store *integrity.Store, repo *Repository) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("integrity store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{store: store, repo: repo}, nil
}

// Open creates the shop and promotes a plain user to vendor in the same transaction.
func (s *service) Open(ctx context.Context, input CreateShopInput) (*ShopDTO, error) {
	shop := input.toModel()
	err := s.store.Atomic(ctx, "open_shop", func(tx *integrity.Tx) error {
		if err := tx.Create(shop); err != nil {
			return err
		}
		_, err := integrity.TxUpdateAs(tx, input.UserID, func(u *models.User) error {
			if u.Role == enums.UserRoleUser {
				u.Role = enums.UserRoleVendor
			}
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromModel(shop), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ShopDTO, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(shop), nil
}

func (s *service) GetByOwner(ctx context.Context, userID uuid.UUID) (*ShopDTO, error) {
	shop, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(shop), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateShopInput) (*ShopDTO, error) {
	shop, err := integrity.UpdateAs(ctx, s.store, id, func(shop *models.Shop) error {
		if shop.Status == enums.ShopStatusDeleted {
			return pkgerrors.New(pkgerrors.CodeValidation, "shop is closed")
		}
		input.apply(shop)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(shop), nil
}

// SetStatus moves a shop through review. Closing goes through Close.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.ShopStatus) (*ShopDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Violation(pkgerrors.CodeEnumViolation, enums.EntityKindShop.String(), "status", status.String(), "unknown shop status")
	}
	if status == enums.ShopStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "use Close to delete a shop")
	}
	shop, err := integrity.UpdateAs(ctx, s.store, id, func(shop *models.Shop) error {
		if shop.Status == enums.ShopStatusDeleted {
			return pkgerrors.New(pkgerrors.CodeValidation, "shop is closed")
		}
		shop.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(shop), nil
}

// Close disables the shop in place; its products stay readable.
func (s *service) Close(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, enums.EntityKindShop, id)
}
