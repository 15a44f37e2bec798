package addresses

import (
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/pkg/db/models"
)

// CreateInput carries a new shipping address.
type CreateInput struct {
	FullName    string
	PhoneNumber string
	Address     string
	City        string
	State       string
	Country     string
	PostalCode  *string
	// MakeDefault points the user's default shipping address at the new row.
	MakeDefault bool
}

// UpdateInput holds optional address changes.
type UpdateInput struct {
	FullName    *string
	PhoneNumber *string
	Address     *string
	City        *string
	State       *string
	Country     *string
	PostalCode  *string
}

func (in CreateInput) toModel(userID uuid.UUID) *models.ShippingAddress {
	return &models.ShippingAddress{
		UserID:      userID,
		FullName:    strings.TrimSpace(in.FullName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Country:     strings.TrimSpace(in.Country),
		PostalCode:  in.PostalCode,
	}
}

func (in UpdateInput) apply(a *models.ShippingAddress) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&a.FullName, in.FullName)
	set(&a.PhoneNumber, in.PhoneNumber)
	set(&a.Address, in.Address)
	set(&a.City, in.City)
	set(&a.State, in.State)
	set(&a.Country, in.Country)
	if in.PostalCode != nil {
		a.PostalCode = in.PostalCode
	}
}
