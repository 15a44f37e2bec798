package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/types"
)

// Order is a purchase placed by a user. Shipping address and card details are
// frozen into snapshots so the order survives removal of either source row.
type Order struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber      string                  `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key" validate:"required,max=32"`
	UserID           uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	PaymentMethod    enums.PaymentMethod     `gorm:"column:payment_method;not null;index:orders_payment_method_idx" validate:"required,enum"`
	CardID           *uuid.UUID              `gorm:"column:card_id;type:uuid"`
	AddressID        *uuid.UUID              `gorm:"column:address_id;type:uuid"`
	TotalAmount      decimal.Decimal         `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	ShippingSnapshot *types.ShippingSnapshot `gorm:"column:shipping_snapshot;type:text"`
	CardSnapshot     *types.CardSnapshot     `gorm:"column:card_snapshot;type:text"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime;index:orders_created_at_idx"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (Order) Kind() enums.EntityKind { return enums.EntityKindOrder }

func (o *Order) PrimaryID() uuid.UUID { return o.ID }

func (o *Order) ApplyDefaults() { ensureID(&o.ID) }

// References requires a shipping address while no snapshot exists and a card
// when paying by card; card and address must belong to the ordering user.
func (o *Order) References() []Reference {
	owner := o.UserID

	address := optional("address_id", enums.EntityKindShippingAddress, o.AddressID)
	address.Required = o.ShippingSnapshot == nil
	address.OwnerID = &owner

	card := optional("card_id", enums.EntityKindCard, o.CardID)
	card.Required = o.PaymentMethod.RequiresCard()
	card.OwnerID = &owner

	return []Reference{
		required("user_id", enums.EntityKindUser, o.UserID),
		address,
		card,
	}
}

// CheckRules enforces that card_id is present exactly when paying by card.
func (o *Order) CheckRules() error {
	hasCard := o.CardID != nil && *o.CardID != uuid.Nil
	if o.PaymentMethod.RequiresCard() && !hasCard && o.CardSnapshot == nil {
		return pkgerrors.Violation(pkgerrors.CodeRequiredField, o.Kind().String(), "card_id", nil, "card_id is required when payment_method is card")
	}
	if !o.PaymentMethod.RequiresCard() && hasCard {
		return pkgerrors.Violation(pkgerrors.CodeRequiredField, o.Kind().String(), "card_id", o.CardID.String(), "card_id must be absent unless payment_method is card")
	}
	if o.TotalAmount.IsNegative() {
		return pkgerrors.Violation(pkgerrors.CodeRangeViolation, o.Kind().String(), "total_amount", o.TotalAmount.String(), "total_amount must not be negative")
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	o.ApplyDefaults()
	return nil
}

// OrderProduct is one line of an order. Status changes go through the
// fulfillment state machine only.
type OrderProduct struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID                `gorm:"column:order_id;type:uuid;not null;index:order_products_order_id_idx"`
	ProductID uuid.UUID                `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int                      `gorm:"column:quantity;not null;check:order_products_quantity_check,quantity >= 1" validate:"min=1,max=32767"`
	Status    enums.OrderProductStatus `gorm:"column:status;not null;index:order_products_status_idx" validate:"required,enum"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderProduct) TableName() string { return "order_products" }

func (OrderProduct) Kind() enums.EntityKind { return enums.EntityKindOrderProduct }

func (op *OrderProduct) PrimaryID() uuid.UUID { return op.ID }

func (op *OrderProduct) ApplyDefaults() {
	ensureID(&op.ID)
	if op.Status == "" {
		op.Status = enums.OrderProductStatusPending
	}
}

func (op *OrderProduct) References() []Reference {
	return []Reference{
		required("order_id", enums.EntityKindOrder, op.OrderID),
		required("product_id", enums.EntityKindProduct, op.ProductID),
	}
}

func (op *OrderProduct) BeforeCreate(tx *gorm.DB) error {
	op.ApplyDefaults()
	return nil
}
