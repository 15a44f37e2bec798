package products

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/vendora/pkg/db/models"
)

// ProductDTO is the public view of a product with its options.
type ProductDTO struct {
	ID             uuid.UUID       `json:"id"`
	ShopID         uuid.UUID       `json:"shop_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Specifications *string         `json:"specifications,omitempty"`
	Packaging      *string         `json:"packaging,omitempty"`
	Stock          int             `json:"stock"`
	Price          decimal.Decimal `json:"price"`
	Category       string          `json:"category"`
	SubCategory    *string         `json:"sub_category,omitempty"`
	Media          string          `json:"media"`
	Disabled       bool            `json:"disabled"`
	Options        []OptionDTO     `json:"options"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// OptionDTO exposes an option with its parsed values.
type OptionDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Values []string  `json:"values"`
}

// CreateProductInput holds the payload to list a product under a shop.
type CreateProductInput struct {
	Name           string
	Description    string
	Specifications *string
	Packaging      *string
	Stock          int
	Price          decimal.Decimal
	Category       string
	SubCategory    *string
	Media          string
	Options        []OptionInput
}

// OptionInput names an option and its allowed values.
type OptionInput struct {
	Name   string
	Values []string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Specifications *string
	Packaging      *string
	Price          *decimal.Decimal
	Category       *string
	SubCategory    *string
	Media          *string
}

func FromModel(p *models.Product, options []models.ProductOption) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:             p.ID,
		ShopID:         p.ShopID,
		Name:           p.Name,
		Description:    p.Description,
		Specifications: p.Specifications,
		Packaging:      p.Packaging,
		Stock:          p.Stock,
		Price:          p.Price,
		Category:       p.Category,
		SubCategory:    p.SubCategory,
		Media:          p.Media,
		Disabled:       p.Disabled,
		Options:        make([]OptionDTO, 0, len(options)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for i := range options {
		dto.Options = append(dto.Options, optionFromModel(&options[i]))
	}
	return dto
}

func optionFromModel(o *models.ProductOption) OptionDTO {
	return OptionDTO{ID: o.ID, Name: o.Name, Values: o.Values()}
}

func (in CreateProductInput) toModel(shopID uuid.UUID) *models.Product {
	return &models.Product{
		ShopID:         shopID,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Specifications: in.Specifications,
		Packaging:      in.Packaging,
		Stock:          in.Stock,
		Price:          in.Price,
		Category:       normalizeCategory(in.Category),
		SubCategory:    normalizeOptionalCategory(in.SubCategory),
		Media:          in.Media,
	}
}

func (in OptionInput) toModel(productID uuid.UUID) *models.ProductOption {
	values := make([]string, 0, len(in.Values))
	for _, v := range in.Values {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return &models.ProductOption{
		ProductID: productID,
		Name:      strings.TrimSpace(in.Name),
		Details:   strings.Join(values, ","),
	}
}

func (in UpdateProductInput) apply(p *models.Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Specifications != nil {
		p.Specifications = in.Specifications
	}
	if in.Packaging != nil {
		p.Packaging = in.Packaging
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = normalizeCategory(*in.Category)
	}
	if in.SubCategory != nil {
		p.SubCategory = normalizeOptionalCategory(in.SubCategory)
	}
	if in.Media != nil {
		p.Media = *in.Media
	}
}

func normalizeCategory(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func normalizeOptionalCategory(value *string) *string {
	if value == nil {
		return nil
	}
	v := normalizeCategory(*value)
	if v == "" {
		return nil
	}
	return &v
}
