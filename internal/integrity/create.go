package integrity

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Create validates entity and inserts it. On success entity carries its
// generated id and default-filled columns; on failure nothing is written.
func (s *Store) Create(ctx context.Context, entity models.Entity) error {
	if entity == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "entity is required")
	}
	entity.ApplyDefaults()
	return s.run(ctx, opCreate, entity.Kind(), entity.PrimaryID().String(), func(ctx context.Context, tx *gorm.DB) error {
		return s.create(tx, entity)
	})
}

func (s *Store) create(tx *gorm.DB, entity models.Entity) error {
	entity.ApplyDefaults()
	if _, err := lookup(entity.Kind()); err != nil {
		return err
	}
	if err := guardCreate(entity); err != nil {
		return err
	}
	if err := models.Validate(entity); err != nil {
		return err
	}
	if err := s.checkReferences(tx, entity, entity.References(), nil); err != nil {
		return err
	}
	if order, ok := entity.(*models.Order); ok {
		if err := s.captureSnapshots(tx, order, nil); err != nil {
			return err
		}
	}
	return tx.Create(entity).Error
}

// guardCreate rejects attributes that are only reachable through dedicated operations.
func guardCreate(entity models.Entity) error {
	switch e := entity.(type) {
	case *models.User:
		if e.DefaultShippingAddressID != nil || e.DefaultCardID != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "default address and card are set through SetDefault").
				WithDetails(map[string]any{"kind": e.Kind().String()})
		}
	case *models.Order:
		// snapshots are always captured from the referenced rows
		e.ShippingSnapshot = nil
		e.CardSnapshot = nil
	case *models.OrderProduct:
		if e.Status != enums.OrderProductStatusPending {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order products start pending").
				WithDetails(map[string]any{"kind": e.Kind().String(), "field": "status", "to": e.Status.String()})
		}
	}
	return nil
}

// checkReferences verifies every reference resolves to a live parent. When
// before is given only references whose target changed are checked.
func (s *Store) checkReferences(tx *gorm.DB, entity models.Entity, refs, before []models.Reference) error {
	kind := entity.Kind().String()
	for _, ref := range refs {
		if before != nil {
			if prev, ok := findReference(before, ref.Column); ok && prev.SameTarget(ref) {
				continue
			}
		}
		if ref.Missing() {
			if ref.Required {
				return pkgerrors.Violation(pkgerrors.CodeRequiredField, kind, ref.Column, nil, fmt.Sprintf("%s is required", ref.Column))
			}
			continue
		}
		if err := s.checkParent(tx, kind, ref); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) checkParent(tx *gorm.DB, kind string, ref models.Reference) error {
	parent, err := lookup(ref.Kind)
	if err != nil {
		return err
	}

	query := s.locking(tx.Table(parent.table), lockShare).Where("id = ?", *ref.ID)
	if parent.live != nil {
		query = parent.live(query)
	}
	if ref.OwnerID != nil {
		query = query.Where("user_id = ?", *ref.OwnerID)
	}

	var found []string
	if err := query.Limit(1).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) == 0 {
		message := fmt.Sprintf("%s references missing %s", ref.Column, ref.Kind)
		if ref.OwnerID != nil {
			message = fmt.Sprintf("%s references a %s the user does not own", ref.Column, ref.Kind)
		}
		return pkgerrors.Violation(pkgerrors.CodeForeignKeyViolation, kind, ref.Column, ref.ID.String(), message)
	}
	return nil
}

func findReference(refs []models.Reference, column string) (models.Reference, bool) {
	for _, ref := range refs {
		if ref.Column == column {
			return ref, true
		}
	}
	return models.Reference{}, false
}

// captureSnapshots freezes the shipping address and card an order points at.
// Unchanged references keep their existing snapshot.
func (s *Store) captureSnapshots(tx *gorm.DB, order *models.Order, before []models.Reference) error {
	refs := order.References()

	if address, ok := findReference(refs, "address_id"); ok && !address.Missing() {
		prev, had := findReference(before, "address_id")
		if !had || !prev.SameTarget(address) || order.ShippingSnapshot == nil {
			var row models.ShippingAddress
			if err := tx.Where("id = ?", *address.ID).First(&row).Error; err != nil {
				return err
			}
			order.ShippingSnapshot = row.Snapshot()
		}
	}

	if !order.PaymentMethod.RequiresCard() {
		order.CardSnapshot = nil
		return nil
	}
	if card, ok := findReference(refs, "card_id"); ok && !card.Missing() {
		prev, had := findReference(before, "card_id")
		if !had || !prev.SameTarget(card) || order.CardSnapshot == nil {
			var row models.Card
			if err := tx.Where("id = ?", *card.ID).First(&row).Error; err != nil {
				return err
			}
			order.CardSnapshot = row.Snapshot()
		}
	}
	return nil
}
