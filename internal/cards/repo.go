package cards

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/internal/repo"
	"github.com/angelmondragon/vendora/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// ListByUser returns stored cards through cards_user_id_idx.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Card, error) {
	var rows []models.Card
	if err := r.base.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cards")
	}
	return rows, nil
}

// DefaultCardID reads the user's current default card pointer.
func (r *Repository) DefaultCardID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	user, err := repo.FindByID[models.User](ctx, r.base, userID, "user")
	if err != nil {
		return nil, err
	}
	return user.DefaultCardID, nil
}
