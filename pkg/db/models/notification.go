package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/enums"
)

// Notification is an in-app message about an order, addressed to a user.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index:notifications_user_id_idx"`
	OrderID   uuid.UUID              `gorm:"column:order_id;type:uuid;not null;index:notifications_order_id_idx"`
	Type      enums.NotificationType `gorm:"column:type;not null;index:notifications_type_idx" validate:"required,enum"`
	Title     string                 `gorm:"column:title;not null" validate:"required,max=255"`
	Message   string                 `gorm:"column:message;not null" validate:"required"`
	Read      bool                   `gorm:"column:read;not null;default:false"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime;index:notifications_created_at_idx"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (Notification) TableName() string { return "notifications" }

func (Notification) Kind() enums.EntityKind { return enums.EntityKindNotification }

func (n *Notification) PrimaryID() uuid.UUID { return n.ID }

func (n *Notification) ApplyDefaults() {
	ensureID(&n.ID)
	if n.Type == "" {
		n.Type = enums.NotificationTypeUser
	}
}

func (n *Notification) References() []Reference {
	return []Reference{
		required("user_id", enums.EntityKindUser, n.UserID),
		required("order_id", enums.EntityKindOrder, n.OrderID),
	}
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	n.ApplyDefaults()
	return nil
}
