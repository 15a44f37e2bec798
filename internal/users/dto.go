package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID                                   uuid.UUID              `json:"id"`
	FullName                             string                 `json:"full_name"`
	Email                                string                 `json:"email"`
	PhoneNumber                          *string                `json:"phone_number,omitempty"`
	ProofOfIdentityType                  *enums.ProofOfIdentity `json:"proof_of_identity_type,omitempty"`
	ProofOfIdentityImage                 *string                `json:"proof_of_identity_image,omitempty"`
	BusinessRegistrationCertificateImage *string                `json:"business_registration_certificate_image,omitempty"`
	Role                                 enums.UserRole         `json:"role"`
	IsActive                             bool                   `json:"is_active"`
	DefaultShippingAddressID             *uuid.UUID             `json:"default_shipping_address_id,omitempty"`
	DefaultCardID                        *uuid.UUID             `json:"default_card_id,omitempty"`
	CreatedAt                            time.Time              `json:"created_at"`
	UpdatedAt                            time.Time              `json:"updated_at"`
}

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	FullName                             string
	Email                                string
	PhoneNumber                          *string
	Password                             string
	Role                                 enums.UserRole
	ProofOfIdentityType                  *enums.ProofOfIdentity
	ProofOfIdentityImage                 *string
	BusinessRegistrationCertificateImage *string
}

// UpdateProfileInput captures the profile fields a user may change.
type UpdateProfileInput struct {
	FullName                             *string
	Email                                *string
	PhoneNumber                          *string
	ProofOfIdentityType                  *enums.ProofOfIdentity
	ProofOfIdentityImage                 *string
	BusinessRegistrationCertificateImage *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:                                   u.ID,
		FullName:                             u.FullName,
		Email:                                u.Email,
		PhoneNumber:                          u.PhoneNumber,
		ProofOfIdentityType:                  u.ProofOfIdentityType,
		ProofOfIdentityImage:                 u.ProofOfIdentityImage,
		BusinessRegistrationCertificateImage: u.BusinessRegistrationCertificateImage,
		Role:                                 u.Role,
		IsActive:                             u.IsActive,
		DefaultShippingAddressID:             u.DefaultShippingAddressID,
		DefaultCardID:                        u.DefaultCardID,
		CreatedAt:                            u.CreatedAt,
		UpdatedAt:                            u.UpdatedAt,
	}
}

func (in RegisterInput) toModel(hash string) *models.User {
	return &models.User{
		FullName:                             strings.TrimSpace(in.FullName),
		Email:                                NormalizeEmail(in.Email),
		PhoneNumber:                          trimmed(in.PhoneNumber),
		PasswordHash:                         hash,
		ProofOfIdentityType:                  in.ProofOfIdentityType,
		ProofOfIdentityImage:                 trimmed(in.ProofOfIdentityImage),
		BusinessRegistrationCertificateImage: trimmed(in.BusinessRegistrationCertificateImage),
		Role:                                 in.Role,
		IsActive:                             true,
	}
}

func (in UpdateProfileInput) apply(u *models.User) {
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		u.Email = NormalizeEmail(*in.Email)
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = trimmed(in.PhoneNumber)
	}
	if in.ProofOfIdentityType != nil {
		u.ProofOfIdentityType = in.ProofOfIdentityType
	}
	if in.ProofOfIdentityImage != nil {
		u.ProofOfIdentityImage = trimmed(in.ProofOfIdentityImage)
	}
	if in.BusinessRegistrationCertificateImage != nil {
		u.BusinessRegistrationCertificateImage = trimmed(in.BusinessRegistrationCertificateImage)
	}
}

// NormalizeEmail lower-cases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// trimmed returns nil for absent or blank values.
func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
