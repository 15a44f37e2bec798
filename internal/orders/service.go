package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/internal/notifications"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/logger"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Store  *integrity.Store
	Repo   *Repository
	Logger *logger.Logger
	// Counter is optional; without it order numbers continue from the database.
	Counter Counter
	Now     func() time.Time
}

// Service places orders and drives their fulfilment.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ChangeAddress(ctx context.Context, userID, orderID, addressID uuid.UUID) (*OrderDTO, error)
	TransitionItem(ctx context.Context, orderProductID uuid.UUID, next enums.OrderProductStatus) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store   *integrity.Store
	repo    *Repository
	logg    *logger.Logger
	numbers numberAllocator
	now     func() time.Time
}

// NewService builds an orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("integrity store required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:   params.Store,
		repo:    params.Repo,
		logg:    logg,
		numbers: numberAllocator{counter: params.Counter},
		now:     now,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one product")
	}
	return s.place(ctx, userID, input)
}

// place retries when a freshly allocated order number collides with a concurrent order.
func (s *service) place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error) {
	var out *OrderDTO
	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		err = s.store.Atomic(ctx, "place_order", func(tx *integrity.Tx) error {
			var txErr error
			out, txErr = s.placeTx(tx, userID, input)
			return txErr
		})
		if !isNumberCollision(err) {
			break
		}
		s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "order number collision, retrying")
	}
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": out.ID.String(), "order_number": out.OrderNumber}), "order placed")
	return out, nil
}

func (s *service) placeTx(tx *integrity.Tx, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error) {
	requested := input.Items
	number, err := s.numbers.next(tx.Context(), tx.DB(), s.now())
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	owners := map[uuid.UUID]struct{}{}
	for _, line := range requested {
		product, err := reserveStock(tx, line)
		if err != nil {
			return nil, err
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))

		shop, err := integrity.TxGetAs[*models.Shop](tx, product.ShopID)
		if err != nil {
			return nil, err
		}
		owners[shop.UserID] = struct{}{}
	}

	addressID := input.AddressID
	order := &models.Order{
		OrderNumber:   number,
		UserID:        userID,
		PaymentMethod: input.PaymentMethod,
		CardID:        input.CardID,
		AddressID:     &addressID,
		TotalAmount:   total.Round(2),
	}
	if err := tx.Create(order); err != nil {
		return nil, err
	}

	created := make([]models.OrderProduct, 0, len(requested))
	for _, line := range requested {
		item := &models.OrderProduct{OrderID: order.ID, ProductID: line.ProductID, Quantity: line.Quantity}
		if err := tx.Create(item); err != nil {
			return nil, err
		}
		created = append(created, *item)
	}

	if _, err := notifications.NotifyTx(tx, notifications.NotifyInput{
		UserID:  userID,
		OrderID: order.ID,
		Type:    enums.NotificationTypeUser,
		Title:   "Order placed",
		Message: fmt.Sprintf("Your order %s was placed.", order.OrderNumber),
	}); err != nil {
		return nil, err
	}
	for owner := range owners {
		if _, err := notifications.NotifyTx(tx, notifications.NotifyInput{
			UserID:  owner,
			OrderID: order.ID,
			Type:    enums.NotificationTypeVendor,
			Title:   "New order",
			Message: fmt.Sprintf("Order %s includes your products.", order.OrderNumber),
		}); err != nil {
			return nil, err
		}
	}

	return FromModel(order, created), nil
}

// reserveStock takes quantity off a live product; short stock surfaces as RANGE_VIOLATION.
func reserveStock(tx *integrity.Tx, line ItemInput) (*models.Product, error) {
	if line.Quantity < 1 {
		return nil, pkgerrors.Violation(pkgerrors.CodeRangeViolation, enums.EntityKindOrderProduct.String(), "quantity", line.Quantity, "quantity must be at least 1")
	}
	return integrity.TxUpdateAs(tx, line.ProductID, func(p *models.Product) error {
		if p.Disabled {
			return pkgerrors.Violation(pkgerrors.CodeForeignKeyViolation, enums.EntityKindOrderProduct.String(), "product_id", p.ID.String(), "product is disabled")
		}
		p.Stock -= line.Quantity
		return nil
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(order, lines), nil
}

// ChangeAddress points an owned order at another of the user's addresses and refreshes its shipping snapshot.
func (s *service) ChangeAddress(ctx context.Context, userID, orderID, addressID uuid.UUID) (*OrderDTO, error) {
	order, err := integrity.UpdateAs(ctx, s.store, orderID, func(o *models.Order) error {
		if o.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		o.AddressID = &addressID
		return nil
	})
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.Items(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order, lines), nil
}

// TransitionItem advances one order line, notifies the buyer and restocks cancelled lines.
func (s *service) TransitionItem(ctx context.Context, orderProductID uuid.UUID, next enums.OrderProductStatus) (*ItemDTO, error) {
	var out *ItemDTO
	err := s.store.Atomic(ctx, "transition_order_product", func(tx *integrity.Tx) error {
		item, err := tx.Transition(orderProductID, next)
		if err != nil {
			return err
		}
		order, err := integrity.TxGetAs[*models.Order](tx, item.OrderID)
		if err != nil {
			return err
		}

		if next == enums.OrderProductStatusCancelled {
			if _, err := integrity.TxUpdateAs(tx, item.ProductID, func(p *models.Product) error {
				p.Stock += item.Quantity
				return nil
			}); err != nil {
				return err
			}
		}

		if _, err := notifications.NotifyTx(tx, notifications.NotifyInput{
			UserID:  order.UserID,
			OrderID: order.ID,
			Type:    enums.NotificationTypeUser,
			Title:   "Order update",
			Message: fmt.Sprintf("An item in order %s is now %s.", order.OrderNumber, next),
		}); err != nil {
			return err
		}

		dto := ItemFromModel(item)
		out = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an order; orders with lines or notifications are kept.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, enums.EntityKindOrder, id)
}
