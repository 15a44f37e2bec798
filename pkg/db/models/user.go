package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/enums"
)

// User is the root identity. Rows are deactivated, never removed.
type User struct {
	ID                                   uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	FullName                             string                 `gorm:"column:full_name;not null" validate:"required,max=255"`
	Email                                string                 `gorm:"column:email;not null;uniqueIndex:users_email_key" validate:"required,email"`
	PhoneNumber                          *string                `gorm:"column:phone_number;uniqueIndex:users_phone_number_key" validate:"omitempty,min=7,max=20"`
	PasswordHash                         string                 `gorm:"column:password_hash;not null" validate:"required"`
	ProofOfIdentityType                  *enums.ProofOfIdentity `gorm:"column:proof_of_identity_type" validate:"omitempty,enum"`
	ProofOfIdentityImage                 *string                `gorm:"column:proof_of_identity_image" validate:"omitempty,url"`
	BusinessRegistrationCertificateImage *string                `gorm:"column:business_registration_certificate_image" validate:"omitempty,url"`
	Role                                 enums.UserRole         `gorm:"column:role;not null;index:users_role_idx" validate:"required,enum"`
	IsActive                             bool                   `gorm:"column:is_active;not null;default:true"`
	DefaultShippingAddressID             *uuid.UUID             `gorm:"column:default_shipping_address_id;type:uuid"`
	DefaultCardID                        *uuid.UUID             `gorm:"column:default_card_id;type:uuid"`
	CreatedAt                            time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                            time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (User) Kind() enums.EntityKind { return enums.EntityKindUser }

func (u *User) PrimaryID() uuid.UUID { return u.ID }

func (u *User) ApplyDefaults() {
	ensureID(&u.ID)
	if u.Role == "" {
		u.Role = enums.UserRoleUser
	}
}

// References is empty: default pointers are maintained through SetDefault only.
func (u *User) References() []Reference { return nil }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ApplyDefaults()
	return nil
}
