package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	"github.com/angelmondragon/vendora/pkg/types"
)

// OrderDTO is an order with its lines.
type OrderDTO struct {
	ID               uuid.UUID               `json:"id"`
	OrderNumber      string                  `json:"order_number"`
	UserID           uuid.UUID               `json:"user_id"`
	PaymentMethod    enums.PaymentMethod     `json:"payment_method"`
	CardID           *uuid.UUID              `json:"card_id,omitempty"`
	AddressID        *uuid.UUID              `json:"address_id,omitempty"`
	TotalAmount      decimal.Decimal         `json:"total_amount"`
	ShippingSnapshot *types.ShippingSnapshot `json:"shipping,omitempty"`
	CardSnapshot     *types.CardSnapshot     `json:"card,omitempty"`
	Items            []ItemDTO               `json:"items"`
	CreatedAt        time.Time               `json:"created_at"`
}

// ItemDTO is one order line.
type ItemDTO struct {
	ID        uuid.UUID                `json:"id"`
	ProductID uuid.UUID                `json:"product_id"`
	Quantity  int                      `json:"quantity"`
	Status    enums.OrderProductStatus `json:"status"`
}

// PlaceOrderInput describes an order placed directly from a product list.
type PlaceOrderInput struct {
	PaymentMethod enums.PaymentMethod
	AddressID     uuid.UUID
	CardID        *uuid.UUID
	Items         []ItemInput
}

// ItemInput is one requested product and quantity.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// FromModel maps an order row and its lines onto the DTO.
func FromModel(order *models.Order, items []models.OrderProduct) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		UserID:           order.UserID,
		PaymentMethod:    order.PaymentMethod,
		CardID:           order.CardID,
		AddressID:        order.AddressID,
		TotalAmount:      order.TotalAmount,
		ShippingSnapshot: order.ShippingSnapshot,
		CardSnapshot:     order.CardSnapshot,
		Items:            make([]ItemDTO, 0, len(items)),
		CreatedAt:        order.CreatedAt,
	}
	for i := range items {
		dto.Items = append(dto.Items, ItemFromModel(&items[i]))
	}
	return dto
}

func ItemFromModel(item *models.OrderProduct) ItemDTO {
	return ItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Status:    item.Status,
	}
}
