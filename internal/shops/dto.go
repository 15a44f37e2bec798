package shops

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
)

// ShopDTO is the public view of a shop.
type ShopDTO struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	Name        string           `json:"name"`
	Tag         *string          `json:"tag,omitempty"`
	Description string           `json:"description"`
	Type        enums.ShopType   `json:"type"`
	Category    string           `json:"category"`
	Email       string           `json:"email"`
	PhoneNumber string           `json:"phone_number"`
	CoverPhoto  *string          `json:"cover_photo,omitempty"`
	Logo        string           `json:"logo"`
	Location    *string          `json:"location,omitempty"`
	Status      enums.ShopStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreateShopInput captures the fields required to open a shop.
type CreateShopInput struct {
	UserID      uuid.UUID
	Name        string
	Tag         *string
	Description string
	Type        enums.ShopType
	Category    string
	Email       string
	PhoneNumber string
	CoverPhoto  *string
	Logo        string
	Location    *string
}

// UpdateShopInput captures the allowed shop fields for mutation.
type UpdateShopInput struct {
	Name        *string
	Tag         *string
	Description *string
	Type        *enums.ShopType
	Category    *string
	Email       *string
	PhoneNumber *string
	CoverPhoto  *string
	Logo        *string
	Location    *string
}

func FromModel(s *models.Shop) *ShopDTO {
	if s == nil {
		return nil
	}
	return &ShopDTO{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Tag:         s.Tag,
		Description: s.Description,
		Type:        s.Type,
		Category:    s.Category,
		Email:       s.Email,
		PhoneNumber: s.PhoneNumber,
		CoverPhoto:  s.CoverPhoto,
		Logo:        s.Logo,
		Location:    s.Location,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (in CreateShopInput) toModel() *models.Shop {
	return &models.Shop{
		UserID:      in.UserID,
		Name:        strings.TrimSpace(in.Name),
		Tag:         in.Tag,
		Description: in.Description,
		Type:        in.Type,
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		CoverPhoto:  in.CoverPhoto,
		Logo:        in.Logo,
		Location:    in.Location,
	}
}

func (in UpdateShopInput) apply(s *models.Shop) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Tag != nil {
		s.Tag = in.Tag
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Type != nil {
		s.Type = *in.Type
	}
	if in.Category != nil {
		s.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}
	if in.Email != nil {
		s.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.PhoneNumber != nil {
		s.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.CoverPhoto != nil {
		s.CoverPhoto = in.CoverPhoto
	}
	if in.Logo != nil {
		s.Logo = *in.Logo
	}
	if in.Location != nil {
		s.Location = in.Location
	}
}
