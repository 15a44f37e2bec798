package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/enums"
	"github.com/angelmondragon/vendora/pkg/types"
)

// DefaultCountry is applied to addresses created without a country.
const DefaultCountry = "Nigeria"

// ShippingAddress is a delivery address owned by a user.
type ShippingAddress struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:shipping_addresses_user_id_idx"`
	FullName    string    `gorm:"column:full_name;not null" validate:"required,max=255"`
	PhoneNumber string    `gorm:"column:phone_number;not null" validate:"required,min=7,max=20"`
	Address     string    `gorm:"column:address;not null" validate:"required"`
	City        string    `gorm:"column:city;not null" validate:"required"`
	State       string    `gorm:"column:state;not null" validate:"required"`
	Country     string    `gorm:"column:country;not null;default:Nigeria" validate:"required"`
	PostalCode  *string   `gorm:"column:postal_code" validate:"omitempty,max=16"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShippingAddress) TableName() string { return "shipping_addresses" }

func (ShippingAddress) Kind() enums.EntityKind { return enums.EntityKindShippingAddress }

func (a *ShippingAddress) PrimaryID() uuid.UUID { return a.ID }

func (a *ShippingAddress) ApplyDefaults() {
	ensureID(&a.ID)
	if a.Country == "" {
		a.Country = DefaultCountry
	}
}

func (a *ShippingAddress) References() []Reference {
	return []Reference{required("user_id", enums.EntityKindUser, a.UserID)}
}

// Snapshot freezes the address for an order.
func (a *ShippingAddress) Snapshot() *types.ShippingSnapshot {
	return &types.ShippingSnapshot{
		FullName:    a.FullName,
		PhoneNumber: a.PhoneNumber,
		Address:     a.Address,
		City:        a.City,
		State:       a.State,
		Country:     a.Country,
		PostalCode:  a.PostalCode,
	}
}

func (a *ShippingAddress) BeforeCreate(tx *gorm.DB) error {
	a.ApplyDefaults()
	return nil
}
