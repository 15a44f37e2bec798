package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/enums"
)

// Saved is a user's single saved-for-later list.
type Saved struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:saved_user_id_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Saved) TableName() string { return "saved" }

func (Saved) Kind() enums.EntityKind { return enums.EntityKindSaved }

func (s *Saved) PrimaryID() uuid.UUID { return s.ID }

func (s *Saved) ApplyDefaults() { ensureID(&s.ID) }

func (s *Saved) References() []Reference {
	return []Reference{required("user_id", enums.EntityKindUser, s.UserID)}
}

func (s *Saved) BeforeCreate(tx *gorm.DB) error {
	s.ApplyDefaults()
	return nil
}

// SavedProduct links a product into a saved list.
type SavedProduct struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SavedID   uuid.UUID `gorm:"column:saved_id;type:uuid;not null;uniqueIndex:saved_products_saved_id_product_id_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:saved_products_saved_id_product_id_key;index:saved_products_product_id_idx"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SavedProduct) TableName() string { return "saved_products" }

func (SavedProduct) Kind() enums.EntityKind { return enums.EntityKindSavedProduct }

func (sp *SavedProduct) PrimaryID() uuid.UUID { return sp.ID }

func (sp *SavedProduct) ApplyDefaults() { ensureID(&sp.ID) }

func (sp *SavedProduct) References() []Reference {
	return []Reference{
		required("saved_id", enums.EntityKindSaved, sp.SavedID),
		required("product_id", enums.EntityKindProduct, sp.ProductID),
	}
}

func (sp *SavedProduct) BeforeCreate(tx *gorm.DB) error {
	sp.ApplyDefaults()
	return nil
}
