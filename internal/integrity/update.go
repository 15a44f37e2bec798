package integrity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Get returns the row of kind with id, or NOT_FOUND.
func (s *Store) Get(ctx context.Context, kind enums.EntityKind, id uuid.UUID) (models.Entity, error) {
	spec, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	var out models.Entity
	err = s.run(ctx, opGet, kind, id.String(), func(ctx context.Context, tx *gorm.DB) error {
		entity, err := s.load(tx, spec, id, false)
		if err != nil {
			return err
		}
		out = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update loads the row, applies mutate and persists the result after
// re-validating it. Only references whose target changed are re-checked.
func (s *Store) Update(ctx context.Context, kind enums.EntityKind, id uuid.UUID, mutate func(models.Entity) error) (models.Entity, error) {
	spec, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	if mutate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mutation is required")
	}

	var out models.Entity
	err = s.run(ctx, opUpdate, kind, id.String(), func(ctx context.Context, tx *gorm.DB) error {
		entity, err := s.update(tx, spec, id, mutate)
		out = entity
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) update(tx *gorm.DB, spec kindSpec, id uuid.UUID, mutate func(models.Entity) error) (models.Entity, error) {
	kind := spec.kind
	entity, err := s.load(tx, spec, id, true)
	if err != nil {
		return nil, err
	}

	beforeRefs := entity.References()
	createdAt := models.CreatedAt(entity)
	var beforeProtected map[string]string
	if spec.protected != nil {
		beforeProtected = spec.protected(entity)
	}

	if err := mutate(entity); err != nil {
		if pkgerrors.As(err) == nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "update rejected")
		}
		return nil, err
	}

	if entity.PrimaryID() != id {
		return nil, pkgerrors.Violation(pkgerrors.CodeValidation, kind.String(), "id", entity.PrimaryID().String(), "id is immutable")
	}
	if after := models.CreatedAt(entity); !after.Equal(createdAt) {
		return nil, pkgerrors.Violation(pkgerrors.CodeValidation, kind.String(), "created_at", after.Format(time.RFC3339Nano), "created_at cannot be changed by update")
	}
	if spec.protected != nil {
		for column, after := range spec.protected(entity) {
			if beforeProtected[column] != after {
				return nil, pkgerrors.Violation(spec.protectedCode, kind.String(), column, after, fmt.Sprintf("%s cannot be changed by update", column))
			}
		}
	}
	if err := models.Validate(entity); err != nil {
		return nil, err
	}
	if err := s.checkReferences(tx, entity, entity.References(), beforeRefs); err != nil {
		return nil, err
	}
	if order, ok := entity.(*models.Order); ok {
		if err := s.captureSnapshots(tx, order, beforeRefs); err != nil {
			return nil, err
		}
	}

	if err := tx.Save(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}
