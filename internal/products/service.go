package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Service exposes vendor product management operations.
type Service interface {
	CreateProduct(ctx context.Context, shopID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*ProductDTO, error)
	DisableProduct(ctx context.Context, id uuid.UUID) error
	AddOption(ctx context.Context, productID uuid.UUID, input OptionInput) (*OptionDTO, error)
	RemoveOption(ctx context.Context, optionID uuid.UUID) error
}

type service struct {
	store *integrity.Store
	repo  *Repository
}

// NewService builds a product service.
func NewService(store *integrity.Store, repo *Repository) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("integrity store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{store: store, repo: repo}, nil
}

// CreateProduct lists the product and its options in one transaction.
func (s *service) CreateProduct(ctx context.Context, shopID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	product := input.toModel(shopID)
	options := make([]models.ProductOption, 0, len(input.Options))

	err := s.store.Atomic(ctx, "create_product", func(tx *integrity.Tx) error {
		if err := tx.Create(product); err != nil {
			return err
		}
		for _, in := range input.Options {
			option := in.toModel(product.ID)
			if err := tx.Create(option); err != nil {
				return err
			}
			options = append(options, *option)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(product, options), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	options, err := s.repo.ListOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product, options), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	return s.mutate(ctx, id, func(p *models.Product) error {
		input.apply(p)
		return nil
	})
}

// AdjustStock adds delta to the on-hand stock; stock never drops below zero.
func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*ProductDTO, error) {
	return s.mutate(ctx, id, func(p *models.Product) error {
		p.Stock += delta
		return nil
	})
}

func (s *service) DisableProduct(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, enums.EntityKindProduct, id)
}

func (s *service) AddOption(ctx context.Context, productID uuid.UUID, input OptionInput) (*OptionDTO, error) {
	option := input.toModel(productID)
	if err := s.store.Create(ctx, option); err != nil {
		return nil, err
	}
	dto := optionFromModel(option)
	return &dto, nil
}

func (s *service) RemoveOption(ctx context.Context, optionID uuid.UUID) error {
	return s.store.Delete(ctx, enums.EntityKindProductOption, optionID)
}

func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(*models.Product) error) (*ProductDTO, error) {
	product, err := integrity.UpdateAs(ctx, s.store, id, func(p *models.Product) error {
		if p.Disabled {
			return pkgerrors.New(pkgerrors.CodeValidation, "product is disabled")
		}
		return fn(p)
	})
	if err != nil {
		return nil, err
	}
	options, err := s.repo.ListOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product, options), nil
}
