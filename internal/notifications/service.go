package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/pagination"
)

// Service defines notification write, list and read operations.
type Service interface {
	Notify(ctx context.Context, input NotifyInput) (*models.Notification, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[models.Notification], error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// NotifyInput describes a notification about an order.
type NotifyInput struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
	Type    enums.NotificationType
	Title   string
	Message string
}

// ListParams configures pagination for notifications.
type ListParams struct {
	UserID     uuid.UUID
	UnreadOnly bool
	pagination.Params
}

type service struct {
	store *integrity.Store
	repo  *Repository
}

// NewService wires notifications dependencies.
func NewService(store *integrity.Store, repo *Repository) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("integrity store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{store: store, repo: repo}, nil
}

func (s *service) Notify(ctx context.Context, input NotifyInput) (*models.Notification, error) {
	notification := input.toModel()
	if err := s.store.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// NotifyTx records the notification inside an enclosing integrity transaction.
func NotifyTx(tx *integrity.Tx, input NotifyInput) (*models.Notification, error) {
	notification := input.toModel()
	if err := tx.Create(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (in NotifyInput) toModel() *models.Notification {
	return &models.Notification{
		UserID:  in.UserID,
		OrderID: in.OrderID,
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
	}
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[models.Notification], error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, listParams{
		UserID:     params.UserID,
		Limit:      params.Limit,
		Cursor:     cursor,
		UnreadOnly: params.UnreadOnly,
	})
	if err != nil {
		return nil, err
	}

	page := pagination.Trim(rows, params.Limit, func(n models.Notification) pagination.Cursor {
		return pagination.Cursor{At: n.CreatedAt, ID: n.ID}
	})
	return &page, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	_, err := integrity.UpdateAs(ctx, s.store, notificationID, func(n *models.Notification) error {
		if n.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		n.Read = true
		return nil
	})
	return err
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.repo.MarkAllRead(ctx, userID)
}
