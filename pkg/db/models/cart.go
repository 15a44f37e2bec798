package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/enums"
)

// Cart is a user's single shopping cart.
type Cart struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:carts_user_id_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }

func (Cart) Kind() enums.EntityKind { return enums.EntityKindCart }

func (c *Cart) PrimaryID() uuid.UUID { return c.ID }

func (c *Cart) ApplyDefaults() { ensureID(&c.ID) }

func (c *Cart) References() []Reference {
	return []Reference{required("user_id", enums.EntityKindUser, c.UserID)}
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	c.ApplyDefaults()
	return nil
}

// CartProduct is one product line in a cart.
type CartProduct struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:cart_products_cart_id_product_id_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_products_cart_id_product_id_key;index:cart_products_product_id_idx"`
	Quantity  int       `gorm:"column:quantity;not null;check:cart_products_quantity_check,quantity >= 1" validate:"min=1,max=32767"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartProduct) TableName() string { return "cart_products" }

func (CartProduct) Kind() enums.EntityKind { return enums.EntityKindCartProduct }

func (cp *CartProduct) PrimaryID() uuid.UUID { return cp.ID }

func (cp *CartProduct) ApplyDefaults() { ensureID(&cp.ID) }

func (cp *CartProduct) References() []Reference {
	return []Reference{
		required("cart_id", enums.EntityKindCart, cp.CartID),
		required("product_id", enums.EntityKindProduct, cp.ProductID),
	}
}

func (cp *CartProduct) BeforeCreate(tx *gorm.DB) error {
	cp.ApplyDefaults()
	return nil
}
