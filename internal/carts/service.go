package carts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// CartDTO is a cart with its line items.
type CartDTO struct {
	ID     uuid.UUID            `json:"id"`
	UserID uuid.UUID            `json:"user_id"`
	Items  []models.CartProduct `json:"items"`
}

// Service manages a user's single shopping cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
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
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{store: store, repo: repo}, nil
}

// Get returns the user's cart, empty when the user never added anything.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &CartDTO{UserID: userID, Items: []models.CartProduct{}}, nil
	}
	items, err := s.repo.Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &CartDTO{ID: cart.ID, UserID: userID, Items: items}, nil
}

// AddItem puts quantity of product in the cart, adding to an existing line.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	var out *CartDTO
	err := s.store.Atomic(ctx, "add_cart_item", func(tx *integrity.Tx) error {
		cart, err := getOrCreate(tx, userID)
		if err != nil {
			return err
		}
		item, err := findItem(tx.DB(), cart.ID, productID)
		if err != nil {
			return err
		}
		if item == nil {
			err = tx.Create(&models.CartProduct{CartID: cart.ID, ProductID: productID, Quantity: quantity})
		} else {
			if quantity < 1 {
				return pkgerrors.Violation(pkgerrors.CodeRangeViolation, enums.EntityKindCartProduct.String(), "quantity", quantity, "quantity must be at least 1")
			}
			_, err = integrity.TxUpdateAs(tx, item.ID, func(cp *models.CartProduct) error {
				cp.Quantity += quantity
				return nil
			})
		}
		if err != nil {
			return err
		}
		out, err = load(tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateQuantity sets the quantity of an existing line.
func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	return s.withItem(ctx, "update_cart_item", userID, productID, func(tx *integrity.Tx, item *models.CartProduct) error {
		_, err := integrity.TxUpdateAs(tx, item.ID, func(cp *models.CartProduct) error {
			cp.Quantity = quantity
			return nil
		})
		return err
	})
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	return s.withItem(ctx, "remove_cart_item", userID, productID, func(tx *integrity.Tx, item *models.CartProduct) error {
		return tx.Delete(enums.EntityKindCartProduct, item.ID)
	})
}

// Clear deletes the cart; its lines cascade.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Atomic(ctx, "clear_cart", func(tx *integrity.Tx) error {
		return ClearTx(tx, userID)
	})
}

// ClearTx deletes the user's cart inside an enclosing transaction. A missing cart is a no-op.
func ClearTx(tx *integrity.Tx, userID uuid.UUID) error {
	cart, err := FindByUser(tx.DB(), userID)
	if err != nil || cart == nil {
		return err
	}
	return tx.Delete(enums.EntityKindCart, cart.ID)
}

func (s *service) withItem(ctx context.Context, op string, userID, productID uuid.UUID, fn func(*integrity.Tx, *models.CartProduct) error) (*CartDTO, error) {
	var out *CartDTO
	err := s.store.Atomic(ctx, op, func(tx *integrity.Tx) error {
		cart, err := FindByUser(tx.DB(), userID)
		if err != nil {
			return err
		}
		var item *models.CartProduct
		if cart != nil {
			if item, err = findItem(tx.DB(), cart.ID, productID); err != nil {
				return err
			}
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart_product not found").
				WithDetails(map[string]any{"kind": enums.EntityKindCartProduct.String(), "product_id": productID.String()})
		}
		if err := fn(tx, item); err != nil {
			return err
		}
		out, err = load(tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getOrCreate(tx *integrity.Tx, userID uuid.UUID) (*models.Cart, error) {
	cart, err := FindByUser(tx.DB(), userID)
	if err != nil || cart != nil {
		return cart, err
	}
	cart = &models.Cart{UserID: userID}
	if err := tx.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func load(tx *integrity.Tx, cart *models.Cart) (*CartDTO, error) {
	items, err := Items(tx.DB(), cart.ID)
	if err != nil {
		return nil, err
	}
	return &CartDTO{ID: cart.ID, UserID: cart.UserID, Items: items}, nil
}
