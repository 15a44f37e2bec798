package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/pkg/enums"
	"github.com/angelmondragon/vendora/pkg/pagination"
)

// ProductFilter narrows product listings. Disabled products are hidden unless asked for.
type ProductFilter struct {
	ShopID          *uuid.UUID
	Category        string
	SubCategory     string
	IncludeDisabled bool
	pagination.Params
}

// OrderFilter narrows order listings; From is inclusive and To exclusive.
type OrderFilter struct {
	UserID        *uuid.UUID
	PaymentMethod enums.PaymentMethod
	From          *time.Time
	To            *time.Time
	pagination.Params
}

// OrderProductFilter requires an order, a status, or both.
type OrderProductFilter struct {
	OrderID *uuid.UUID
	Status  enums.OrderProductStatus
}

// ShopFilter requires at least one of type, category or owner.
type ShopFilter struct {
	Type     enums.ShopType
	Category string
	UserID   *uuid.UUID
	pagination.Params
}

// ReviewFilter requires a product, a rating, or both.
type ReviewFilter struct {
	ProductID *uuid.UUID
	Rating    int
	pagination.Params
}
