package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/enums"
)

// Shop is a vendor storefront; each user owns at most one.
type Shop struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:shops_user_id_key"`
	Name        string           `gorm:"column:name;not null;uniqueIndex:shops_name_key" validate:"required,max=120"`
	Tag         *string          `gorm:"column:tag" validate:"omitempty,max=120"`
	Description string           `gorm:"column:description;not null" validate:"required"`
	Type        enums.ShopType   `gorm:"column:type;not null;index:shops_type_idx" validate:"required,enum"`
	Category    string           `gorm:"column:category;not null;index:shops_category_idx" validate:"required"`
	Email       string           `gorm:"column:email;not null;uniqueIndex:shops_email_key" validate:"required,email"`
	PhoneNumber string           `gorm:"column:phone_number;not null;uniqueIndex:shops_phone_number_key" validate:"required,min=7,max=20"`
	CoverPhoto  *string          `gorm:"column:cover_photo" validate:"omitempty,url"`
	Logo        string           `gorm:"column:logo;not null" validate:"required,url"`
	Location    *string          `gorm:"column:location"`
	Status      enums.ShopStatus `gorm:"column:status;not null;index:shops_status_idx" validate:"required,enum"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Shop) TableName() string { return "shops" }

func (Shop) Kind() enums.EntityKind { return enums.EntityKindShop }

func (s *Shop) PrimaryID() uuid.UUID { return s.ID }

func (s *Shop) ApplyDefaults() {
	ensureID(&s.ID)
	if s.Status == "" {
		s.Status = enums.ShopStatusPending
	}
}

func (s *Shop) References() []Reference {
	return []Reference{required("user_id", enums.EntityKindUser, s.UserID)}
}

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	s.ApplyDefaults()
	return nil
}
