package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/internal/repo"
	"github.com/angelmondragon/vendora/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/pagination"
)

// Service answers the marketplace's read queries. Every query filters or
// sorts on an indexed column.
type Service struct {
	base repo.Base
}

func NewService(db *gorm.DB) *Service {
	return &Service{base: repo.NewBase(db)}
}

// Products pages products by most recent update.
func (s *Service) Products(ctx context.Context, filter ProductFilter) (*pagination.Page[models.Product], error) {
	cursor, err := repo.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}
	query := s.base.DB(ctx).Model(&models.Product{})
	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if c := normalize(filter.Category); c != "" {
		query = query.Where("category = ?", c)
	}
	if c := normalize(filter.SubCategory); c != "" {
		query = query.Where("sub_category = ?", c)
	}
	if !filter.IncludeDisabled {
		query = query.Where("disabled = ?", false)
	}

	var rows []models.Product
	if err := repo.Keyset(query, "updated_at", cursor, filter.Limit).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	page := pagination.Trim(rows, filter.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{At: p.UpdatedAt, ID: p.ID}
	})
	return &page, nil
}

// Orders pages orders newest first.
func (s *Service) Orders(ctx context.Context, filter OrderFilter) (*pagination.Page[models.Order], error) {
	if filter.PaymentMethod != "" && !filter.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeEnumViolation, "unknown payment method").
			WithDetails(map[string]any{"field": "payment_method", "value": filter.PaymentMethod.String()})
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must be before to")
	}
	cursor, err := repo.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}

	query := s.base.DB(ctx).Model(&models.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", filter.To.UTC())
	}

	var rows []models.Order
	if err := repo.Keyset(query, "created_at", cursor, filter.Limit).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	page := pagination.Trim(rows, filter.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{At: o.CreatedAt, ID: o.ID}
	})
	return &page, nil
}

// OrderProducts lists order lines by order and/or status.
func (s *Service) OrderProducts(ctx context.Context, filter OrderProductFilter) ([]models.OrderProduct, error) {
	if filter.OrderID == nil && filter.Status == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id or status required")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeEnumViolation, "unknown order product status").
			WithDetails(map[string]any{"field": "status", "value": filter.Status.String()})
	}

	query := s.base.DB(ctx).Model(&models.OrderProduct{})
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var rows []models.OrderProduct
	if err := query.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order products")
	}
	return rows, nil
}

// Shops pages shops matching type, category or owner, newest first.
func (s *Service) Shops(ctx context.Context, filter ShopFilter) (*pagination.Page[models.Shop], error) {
	category := normalize(filter.Category)
	if filter.Type == "" && category == "" && filter.UserID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type, category or user id required")
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeEnumViolation, "unknown shop type").
			WithDetails(map[string]any{"field": "type", "value": filter.Type.String()})
	}
	cursor, err := repo.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}

	query := s.base.DB(ctx).Model(&models.Shop{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var rows []models.Shop
	if err := repo.Keyset(query, "created_at", cursor, filter.Limit).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shops")
	}
	page := pagination.Trim(rows, filter.Limit, func(sh models.Shop) pagination.Cursor {
		return pagination.Cursor{At: sh.CreatedAt, ID: sh.ID}
	})
	return &page, nil
}

// Reviews pages reviews by product and/or rating, newest first.
func (s *Service) Reviews(ctx context.Context, filter ReviewFilter) (*pagination.Page[models.ProductReview], error) {
	if filter.ProductID == nil && filter.Rating == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id or rating required")
	}
	if filter.Rating != 0 && (filter.Rating < 1 || filter.Rating > 5) {
		return nil, pkgerrors.Violation(pkgerrors.CodeRangeViolation, "product_review", "rating", filter.Rating, "rating must be between 1 and 5")
	}
	cursor, err := repo.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}

	query := s.base.DB(ctx).Model(&models.ProductReview{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Rating != 0 {
		query = query.Where("rating = ?", filter.Rating)
	}

	var rows []models.ProductReview
	if err := repo.Keyset(query, "created_at", cursor, filter.Limit).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	page := pagination.Trim(rows, filter.Limit, func(r models.ProductReview) pagination.Cursor {
		return pagination.Cursor{At: r.CreatedAt, ID: r.ID}
	})
	return &page, nil
}

// Options lists a product's options by name.
func (s *Service) Options(ctx context.Context, productID uuid.UUID) ([]models.ProductOption, error) {
	var rows []models.ProductOption
	if err := s.base.DB(ctx).Where("product_id = ?", productID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product options")
	}
	return rows, nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
