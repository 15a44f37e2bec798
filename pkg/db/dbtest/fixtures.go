package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
)

// Fixtures inserts valid rows straight into the database, skipping the
// integrity layer.
type Fixtures struct {
	t    testing.TB
	conn *gorm.DB
	seq  int
}

func NewFixtures(t testing.TB, conn *gorm.DB) *Fixtures {
	return &Fixtures{t: t, conn: conn}
}

func (f *Fixtures) next() int {
	f.seq++
	return f.seq
}

func (f *Fixtures) insert(row any) {
	f.t.Helper()
	if err := f.conn.Create(row).Error; err != nil {
		f.t.Fatalf("insert fixture %T: %v", row, err)
	}
}

func (f *Fixtures) User() *models.User {
	n := f.next()
	user := &models.User{
		FullName:     fmt.Sprintf("User %d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "hash",
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}
	f.insert(user)
	return user
}

func (f *Fixtures) Shop(owner uuid.UUID) *models.Shop {
	n := f.next()
	shop := &models.Shop{
		UserID:      owner,
		Name:        fmt.Sprintf("Shop %d", n),
		Description: "a shop",
		Type:        enums.ShopTypeProducts,
		Category:    "fashion",
		Email:       fmt.Sprintf("shop%d@example.com", n),
		PhoneNumber: fmt.Sprintf("0803%07d", n),
		Logo:        "https://cdn.example.com/logo.png",
	}
	f.insert(shop)
	return shop
}

func (f *Fixtures) Product(shopID uuid.UUID) *models.Product {
	n := f.next()
	product := &models.Product{
		ShopID:      shopID,
		Name:        fmt.Sprintf("Product %d", n),
		Description: "a product",
		Stock:       10,
		Price:       decimal.RequireFromString("1500.00"),
		Category:    "shoes",
		Media:       "https://cdn.example.com/p.png",
	}
	f.insert(product)
	return product
}

func (f *Fixtures) Address(userID uuid.UUID) *models.ShippingAddress {
	address := &models.ShippingAddress{
		UserID:      userID,
		FullName:    "Ada Obi",
		PhoneNumber: "08031234567",
		Address:     "12 Marina Road",
		City:        "Lagos",
		State:       "Lagos",
		Country:     models.DefaultCountry,
	}
	f.insert(address)
	return address
}

func (f *Fixtures) Card(userID uuid.UUID) *models.Card {
	card := &models.Card{
		UserID:     userID,
		CardName:   "Ada Obi",
		CardNumber: "4111111111111111",
		ExpiryDate: "12/29",
		CVV:        "123",
	}
	f.insert(card)
	return card
}

// Order inserts a bank-transfer order shipping to addressID.
func (f *Fixtures) Order(userID, addressID uuid.UUID) *models.Order {
	n := f.next()
	address := addressID
	order := &models.Order{
		OrderNumber:   fmt.Sprintf("20260101-%06d", n),
		UserID:        userID,
		PaymentMethod: enums.PaymentMethodBankTransfer,
		AddressID:     &address,
		TotalAmount:   decimal.RequireFromString("1500.00"),
	}
	f.insert(order)
	return order
}

func (f *Fixtures) OrderProduct(orderID, productID uuid.UUID) *models.OrderProduct {
	item := &models.OrderProduct{OrderID: orderID, ProductID: productID, Quantity: 1}
	f.insert(item)
	return item
}

// DB exposes the underlying connection for assertions.
func (f *Fixtures) DB() *gorm.DB {
	return f.conn
}
