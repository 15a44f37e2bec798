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

// Delete retires or removes the row according to the policy of its kind:
// users, shops and products are disabled in place; orders are restricted while
// lines or notifications reference them; carts and saved lists take their
// entries with them; addresses and cards detach from orders, which keep a
// frozen snapshot, but not while they are a user's current default.
func (s *Store) Delete(ctx context.Context, kind enums.EntityKind, id uuid.UUID) error {
	spec, err := lookup(kind)
	if err != nil {
		return err
	}
	return s.run(ctx, opDelete, kind, id.String(), func(ctx context.Context, tx *gorm.DB) error {
		return s.remove(tx, spec, id)
	})
}

func (s *Store) remove(tx *gorm.DB, spec kindSpec, id uuid.UUID) error {
	entity, err := s.load(tx, spec, id, true)
	if err != nil {
		return err
	}

	if spec.disable != nil {
		return tx.Model(entity).Updates(spec.disable).Error
	}

	for _, dep := range spec.dependents {
		if dep.action != restrict {
			continue
		}
		if err := s.restrictDependent(tx, spec, dep, id); err != nil {
			return err
		}
	}

	for _, dep := range spec.dependents {
		switch dep.action {
		case cascade:
			model, _ := models.New(dep.kind)
			if err := tx.Where(dep.column+" = ?", id).Delete(model).Error; err != nil {
				return err
			}
		case detach:
			if err := s.detachDependent(tx, dep, entity, id); err != nil {
				return err
			}
		}
	}

	return tx.Delete(entity).Error
}

func (s *Store) restrictDependent(tx *gorm.DB, spec kindSpec, dep dependent, id uuid.UUID) error {
	child, err := lookup(dep.kind)
	if err != nil {
		return err
	}
	var found []string
	if err := tx.Table(child.table).Where(dep.column+" = ?", id).Limit(1).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) == 0 {
		return nil
	}
	return pkgerrors.Violation(pkgerrors.CodeForeignKeyViolation, spec.kind.String(), dep.column, id.String(),
		fmt.Sprintf("%s is still referenced by %s.%s", spec.kind, child.table, dep.column))
}

func (s *Store) detachDependent(tx *gorm.DB, dep dependent, entity models.Entity, id uuid.UUID) error {
	child, err := lookup(dep.kind)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	if dep.snapshot != "" {
		if snapshot := snapshotOf(entity); snapshot != nil {
			err := tx.Table(child.table).
				Where(dep.column+" = ? AND "+dep.snapshot+" IS NULL", id).
				Updates(map[string]any{dep.snapshot: snapshot, "updated_at": now}).Error
			if err != nil {
				return err
			}
		}
	}

	return tx.Table(child.table).
		Where(dep.column+" = ?", id).
		Updates(map[string]any{dep.column: nil, "updated_at": now}).Error
}

func snapshotOf(entity models.Entity) any {
	switch e := entity.(type) {
	case *models.ShippingAddress:
		return e.Snapshot()
	case *models.Card:
		return e.Snapshot()
	}
	return nil
}
