package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Product is a shop listing. Retired listings are disabled, never removed.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ShopID         uuid.UUID       `gorm:"column:shop_id;type:uuid;not null;index:products_shop_id_idx"`
	Name           string          `gorm:"column:name;not null;uniqueIndex:products_name_key" validate:"required,max=255"`
	Description    string          `gorm:"column:description;not null" validate:"required"`
	Specifications *string         `gorm:"column:specifications"`
	Packaging      *string         `gorm:"column:packaging"`
	Stock          int             `gorm:"column:stock;not null;check:products_stock_check,stock >= 0" validate:"gte=0"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Category       string          `gorm:"column:category;not null;index:products_category_idx" validate:"required"`
	SubCategory    *string         `gorm:"column:sub_category;index:products_sub_category_idx"`
	Media          string          `gorm:"column:media;not null" validate:"required,url"`
	Disabled       bool            `gorm:"column:disabled;not null;default:false;index:products_disabled_idx"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime;index:products_updated_at_idx"`
}

func (Product) TableName() string { return "products" }

func (Product) Kind() enums.EntityKind { return enums.EntityKindProduct }

func (p *Product) PrimaryID() uuid.UUID { return p.ID }

func (p *Product) ApplyDefaults() { ensureID(&p.ID) }

func (p *Product) References() []Reference {
	return []Reference{required("shop_id", enums.EntityKindShop, p.ShopID)}
}

// CheckRules enforces the price floor the validator tags cannot express on decimals.
func (p *Product) CheckRules() error {
	if !p.Price.IsPositive() {
		return pkgerrors.Violation(pkgerrors.CodeRangeViolation, p.Kind().String(), "price", p.Price.String(), "price must be greater than zero")
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.ApplyDefaults()
	return nil
}

// ProductOption is a named choice on a product, e.g. "size" with details "S,M,L".
type ProductOption struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:product_options_product_id_idx"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:product_options_name_key" validate:"required,max=120"`
	Details   string    `gorm:"column:details;not null" validate:"required"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductOption) TableName() string { return "product_options" }

func (ProductOption) Kind() enums.EntityKind { return enums.EntityKindProductOption }

func (o *ProductOption) PrimaryID() uuid.UUID { return o.ID }

func (o *ProductOption) ApplyDefaults() { ensureID(&o.ID) }

func (o *ProductOption) References() []Reference {
	return []Reference{required("product_id", enums.EntityKindProduct, o.ProductID)}
}

// Values splits the comma-delimited details, dropping blanks.
func (o *ProductOption) Values() []string {
	parts := strings.Split(o.Details, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (o *ProductOption) BeforeCreate(tx *gorm.DB) error {
	o.ApplyDefaults()
	return nil
}

// ProductReview is a buyer's 1..5 rating of a product.
type ProductReview struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:product_reviews_product_id_idx"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:product_reviews_user_id_idx"`
	Rating    int       `gorm:"column:rating;not null;index:product_reviews_rating_idx;check:product_reviews_rating_check,rating BETWEEN 1 AND 5" validate:"min=1,max=5"`
	Comment   string    `gorm:"column:comment;not null" validate:"required"`
	Images    *string   `gorm:"column:images" validate:"omitempty,url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:product_reviews_created_at_idx"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductReview) TableName() string { return "product_reviews" }

func (ProductReview) Kind() enums.EntityKind { return enums.EntityKindProductReview }

func (r *ProductReview) PrimaryID() uuid.UUID { return r.ID }

func (r *ProductReview) ApplyDefaults() { ensureID(&r.ID) }

func (r *ProductReview) References() []Reference {
	return []Reference{
		required("product_id", enums.EntityKindProduct, r.ProductID),
		required("user_id", enums.EntityKindUser, r.UserID),
	}
}

func (r *ProductReview) BeforeCreate(tx *gorm.DB) error {
	r.ApplyDefaults()
	return nil
}
