package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/vendora/internal/addresses"
	"github.com/angelmondragon/vendora/internal/app"
	"github.com/angelmondragon/vendora/internal/cards"
	"github.com/angelmondragon/vendora/internal/orders"
	"github.com/angelmondragon/vendora/internal/products"
	"github.com/angelmondragon/vendora/internal/reviews"
	"github.com/angelmondragon/vendora/internal/shops"
	"github.com/angelmondragon/vendora/internal/users"
	"github.com/angelmondragon/vendora/pkg/enums"
)

// Summary reports what a seed run created.
type Summary struct {
	VendorEmail string
	BuyerEmail  string
	Products    int
	OrderNumber string
}

var demoProducts = []products.CreateProductInput{
	{
		Name:        "Adire Two-Piece",
		Description: "Hand-dyed cotton set.",
		Stock:       25,
		Price:       decimal.RequireFromString("18500.00"),
		Category:    "fashion",
		Media:       "https://cdn.vendora.dev/demo/adire.png",
		Options:     []products.OptionInput{{Name: "Adire Size", Values: []string{"S", "M", "L"}}},
	},
	{
		Name:        "Leather Slides",
		Description: "Handmade in Aba.",
		Stock:       40,
		Price:       decimal.RequireFromString("9500.00"),
		Category:    "shoes",
		Media:       "https://cdn.vendora.dev/demo/slides.png",
		Options:     []products.OptionInput{{Name: "Slide Size", Values: []string{"40", "41", "42", "43"}}},
	},
	{
		Name:        "Shea Butter Jar",
		Description: "Unrefined, 500g.",
		Stock:       100,
		Price:       decimal.RequireFromString("3200.00"),
		Category:    "beauty",
		Media:       "https://cdn.vendora.dev/demo/shea.png",
	},
}

// Run populates an empty database with a vendor, a shop with products, and a
// buyer with one order and a cart in progress. Product failures are collected so one bad row
// does not hide the others.
func Run(ctx context.Context, a *app.App, password string) (*Summary, error) {
	vendor, err := a.Users.Register(ctx, users.RegisterInput{
		FullName: "Chidi Okafor",
		Email:    "vendor@vendora.dev",
		Password: password,
		Role:     enums.UserRoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("register vendor: %w", err)
	}

	shop, err := a.Shops.Open(ctx, shops.CreateShopInput{
		UserID:      vendor.ID,
		Name:        "Okafor Goods",
		Description: "Clothing and accessories from the south-east.",
		Type:        enums.ShopTypeProducts,
		Category:    "fashion",
		Email:       "shop@vendora.dev",
		PhoneNumber: "08030000001",
		Logo:        "https://cdn.vendora.dev/demo/logo.png",
	})
	if err != nil {
		return nil, fmt.Errorf("open shop: %w", err)
	}

	var created []*products.ProductDTO
	var errs error
	for _, input := range demoProducts {
		product, err := a.Products.CreateProduct(ctx, shop.ID, input)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %q: %w", input.Name, err))
			continue
		}
		created = append(created, product)
	}
	if errs != nil {
		return nil, errs
	}

	buyer, err := a.Users.Register(ctx, users.RegisterInput{
		FullName: "Ada Obi",
		Email:    "buyer@vendora.dev",
		Password: password,
		Role:     enums.UserRoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("register buyer: %w", err)
	}
	address, err := a.Addresses.Create(ctx, buyer.ID, addresses.CreateInput{
		FullName:    "Ada Obi",
		PhoneNumber: "08031234567",
		Address:     "12 Marina Road",
		City:        "Lagos",
		State:       "Lagos",
		MakeDefault: true,
	})
	if err != nil {
		return nil, fmt.Errorf("buyer address: %w", err)
	}
	card, err := a.Cards.Create(ctx, buyer.ID, cards.CreateInput{
		CardName:    "Ada Obi",
		CardNumber:  "4111111111111111",
		ExpiryDate:  "12/29",
		CVV:         "123",
		MakeDefault: true,
	})
	if err != nil {
		return nil, fmt.Errorf("buyer card: %w", err)
	}

	lines := make([]orders.ItemInput, 0, len(created))
	for i, product := range created {
		lines = append(lines, orders.ItemInput{ProductID: product.ID, Quantity: i + 1})
	}
	order, err := a.Orders.PlaceOrder(ctx, buyer.ID, orders.PlaceOrderInput{
		PaymentMethod: enums.PaymentMethodCard,
		AddressID:     address.ID,
		CardID:        &card.ID,
		Items:         lines,
	})
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	if _, err := a.Carts.AddItem(ctx, buyer.ID, created[len(created)-1].ID, 1); err != nil {
		return nil, fmt.Errorf("fill cart: %w", err)
	}
	if _, err := a.Orders.TransitionItem(ctx, order.Items[0].ID, enums.OrderProductStatusProcessing); err != nil {
		return nil, fmt.Errorf("process first item: %w", err)
	}
	if _, err := a.Reviews.Create(ctx, reviews.CreateInput{
		UserID:    buyer.ID,
		ProductID: created[0].ID,
		Rating:    5,
		Comment:   "Beautiful fabric.",
	}); err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}

	return &Summary{
		VendorEmail: vendor.Email,
		BuyerEmail:  buyer.Email,
		Products:    len(created),
		OrderNumber: order.OrderNumber,
	}, nil
}
