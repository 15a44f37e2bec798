package addresses

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Service manages a user's shipping address book.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.ShippingAddress, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*models.ShippingAddress, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]models.ShippingAddress, error)
	MakeDefault(ctx context.Context, userID, addressID uuid.UUID) error
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
		return nil, fmt.Errorf("addresses repository required")
	}
	return &service{store: store, repo: repo}, nil
}

// Create stores the address and, when asked, makes it the default in the same transaction.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.ShippingAddress, error) {
	address := input.toModel(userID)
	err := s.store.Atomic(ctx, "create_shipping_address", func(tx *integrity.Tx) error {
		if err := tx.Create(address); err != nil {
			return err
		}
		if !input.MakeDefault {
			return nil
		}
		_, err := tx.SetDefault(userID, enums.EntityKindShippingAddress, address.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*models.ShippingAddress, error) {
	return integrity.UpdateAs(ctx, s.store, addressID, func(a *models.ShippingAddress) error {
		if a.UserID != userID {
			return notFound(addressID)
		}
		input.apply(a)
		return nil
	})
}

// Delete removes an owned address. The current default cannot be deleted until it is replaced or cleared.
func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.store.Atomic(ctx, "delete_shipping_address", func(tx *integrity.Tx) error {
		address, err := integrity.TxGetAs[*models.ShippingAddress](tx, addressID)
		if err != nil {
			return err
		}
		if address.UserID != userID {
			return notFound(addressID)
		}
		return tx.Delete(enums.EntityKindShippingAddress, addressID)
	})
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.ShippingAddress, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) MakeDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	_, err := s.store.SetDefault(ctx, userID, enums.EntityKindShippingAddress, addressID)
	return err
}

func notFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "shipping_address not found").
		WithDetails(map[string]any{"kind": enums.EntityKindShippingAddress.String(), "id": id.String()})
}
