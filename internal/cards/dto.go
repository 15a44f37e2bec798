package cards

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/pkg/db/models"
)

// CardDTO is the masked view of a stored card. The CVV never leaves the store.
type CardDTO struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	CardName   string    `json:"card_name"`
	LastFour   string    `json:"last_four"`
	ExpiryDate string    `json:"expiry_date"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateInput carries a card to store for a user.
type CreateInput struct {
	CardName    string
	CardNumber  string
	ExpiryDate  string
	CVV         string
	MakeDefault bool
}

// UpdateInput allows renaming a card or extending its expiry.
type UpdateInput struct {
	CardName   *string
	ExpiryDate *string
}

func FromModel(card *models.Card, defaultID *uuid.UUID) *CardDTO {
	if card == nil {
		return nil
	}
	return &CardDTO{
		ID:         card.ID,
		UserID:     card.UserID,
		CardName:   card.CardName,
		LastFour:   card.LastFour(),
		ExpiryDate: card.ExpiryDate,
		IsDefault:  defaultID != nil && *defaultID == card.ID,
		CreatedAt:  card.CreatedAt,
	}
}

func (in CreateInput) toModel(userID uuid.UUID) *models.Card {
	return &models.Card{
		UserID:     userID,
		CardName:   strings.TrimSpace(in.CardName),
		CardNumber: digitsOnly(in.CardNumber),
		ExpiryDate: strings.TrimSpace(in.ExpiryDate),
		CVV:        strings.TrimSpace(in.CVV),
	}
}

func (in UpdateInput) apply(card *models.Card) {
	if in.CardName != nil {
		card.CardName = strings.TrimSpace(*in.CardName)
	}
	if in.ExpiryDate != nil {
		card.ExpiryDate = strings.TrimSpace(*in.ExpiryDate)
	}
}

// digitsOnly drops the spaces and dashes people type between card number groups.
func digitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, value)
}
