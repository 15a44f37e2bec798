package integrity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// SetDefault makes targetID the user's default shipping address or card. The
// previous default is replaced by the same single-row update, so readers see
// exactly one default before and after.
func (s *Store) SetDefault(ctx context.Context, userID uuid.UUID, kind enums.EntityKind, targetID uuid.UUID) (*models.User, error) {
	return s.writeDefault(ctx, opSetDefault, userID, kind, &targetID)
}

// ClearDefault removes the user's default shipping address or card.
func (s *Store) ClearDefault(ctx context.Context, userID uuid.UUID, kind enums.EntityKind) (*models.User, error) {
	return s.writeDefault(ctx, opClearDefault, userID, kind, nil)
}

func (s *Store) writeDefault(ctx context.Context, op string, userID uuid.UUID, kind enums.EntityKind, targetID *uuid.UUID) (*models.User, error) {
	if _, err := defaultColumn(kind); err != nil {
		return nil, err
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "default:"+userID.String())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire default lock")
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "release default lock failed: "+err.Error())
			}
		}()
	}

	var out *models.User
	err := s.run(ctx, op, enums.EntityKindUser, userID.String(), func(ctx context.Context, tx *gorm.DB) error {
		user, err := s.setDefault(tx, userID, kind, targetID)
		out = user
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// setDefault points the user's default column for kind at targetID, or clears
// it when targetID is nil.
func (s *Store) setDefault(tx *gorm.DB, userID uuid.UUID, kind enums.EntityKind, targetID *uuid.UUID) (*models.User, error) {
	column, err := defaultColumn(kind)
	if err != nil {
		return nil, err
	}

	userSpec := registry[enums.EntityKindUser]
	entity, err := s.load(tx, userSpec, userID, true)
	if err != nil {
		return nil, err
	}
	user := entity.(*models.User)
	if !user.IsActive {
		return nil, pkgerrors.Violation(pkgerrors.CodeForeignKeyViolation, enums.EntityKindUser.String(), "id", userID.String(), "user is deactivated")
	}

	var value any
	if targetID != nil {
		owner := userID
		ref := models.Reference{Column: column, Kind: kind, ID: targetID, Required: true, OwnerID: &owner}
		if err := s.checkParent(tx, enums.EntityKindUser.String(), ref); err != nil {
			return nil, err
		}
		value = *targetID
	}

	if err := tx.Model(user).Update(column, value).Error; err != nil {
		return nil, err
	}
	reloaded, err := s.load(tx, userSpec, userID, false)
	if err != nil {
		return nil, err
	}
	return reloaded.(*models.User), nil
}
