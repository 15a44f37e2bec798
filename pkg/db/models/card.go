package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/types"
)

// Card is a stored payment card owned by a user.
type Card struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:cards_user_id_idx"`
	CardName   string    `gorm:"column:card_name;not null" validate:"required,max=120"`
	CardNumber string    `gorm:"column:card_number;not null" validate:"required,numeric,min=12,max=19"`
	ExpiryDate string    `gorm:"column:expiry_date;not null" validate:"required,len=5"`
	CVV        string    `gorm:"column:cvv;not null" validate:"required,numeric,min=3,max=4"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Card) TableName() string { return "cards" }

func (Card) Kind() enums.EntityKind { return enums.EntityKindCard }

func (c *Card) PrimaryID() uuid.UUID { return c.ID }

func (c *Card) ApplyDefaults() { ensureID(&c.ID) }

func (c *Card) References() []Reference {
	return []Reference{required("user_id", enums.EntityKindUser, c.UserID)}
}

// CheckRules validates the MM/YY expiry month.
func (c *Card) CheckRules() error {
	month, _, ok := strings.Cut(c.ExpiryDate, "/")
	m, err := strconv.Atoi(month)
	if !ok || err != nil || m < 1 || m > 12 {
		return pkgerrors.Violation(pkgerrors.CodeRangeViolation, c.Kind().String(), "expiry_date", c.ExpiryDate, "expiry_date must be MM/YY")
	}
	return nil
}

// LastFour returns the trailing digits shown on receipts.
func (c *Card) LastFour() string {
	if len(c.CardNumber) <= 4 {
		return c.CardNumber
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}

// Snapshot freezes the non-sensitive card details for an order.
func (c *Card) Snapshot() *types.CardSnapshot {
	return &types.CardSnapshot{
		CardName:   c.CardName,
		LastFour:   c.LastFour(),
		ExpiryDate: c.ExpiryDate,
	}
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	c.ApplyDefaults()
	return nil
}
