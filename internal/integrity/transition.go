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

// Transition moves an order product along pending -> processing -> shipped ->
// delivered, or to cancelled from pending or processing. The write is
// conditional on the status read, so of two racing transitions at most one wins.
func (s *Store) Transition(ctx context.Context, orderProductID uuid.UUID, next enums.OrderProductStatus) (*models.OrderProduct, error) {
	var out *models.OrderProduct
	err := s.run(ctx, opTransition, enums.EntityKindOrderProduct, orderProductID.String(), func(ctx context.Context, tx *gorm.DB) error {
		item, err := s.transition(tx, orderProductID, next)
		out = item
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) transition(tx *gorm.DB, orderProductID uuid.UUID, next enums.OrderProductStatus) (*models.OrderProduct, error) {
	kind := enums.EntityKindOrderProduct
	if !next.IsValid() {
		return nil, pkgerrors.Violation(pkgerrors.CodeEnumViolation, kind.String(), "status", next.String(), fmt.Sprintf("status %q is not allowed", next))
	}

	entity, err := s.load(tx, registry[kind], orderProductID, true)
	if err != nil {
		return nil, err
	}
	item := entity.(*models.OrderProduct)
	current := item.Status

	if !current.CanTransitionTo(next) {
		return nil, invalidTransition(current, next)
	}

	now := time.Now().UTC()
	res := tx.Model(&models.OrderProduct{}).
		Where("id = ? AND status = ?", orderProductID, current).
		Updates(map[string]any{"status": next, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, invalidTransition(current, next)
	}

	item.Status = next
	item.UpdatedAt = now
	return item, nil
}

func invalidTransition(from, to enums.OrderProductStatus) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, fmt.Sprintf("cannot move order product from %s to %s", from, to)).
		WithDetails(map[string]any{
			"kind":  enums.EntityKindOrderProduct.String(),
			"field": "status",
			"from":  from.String(),
			"to":    to.String(),
		})
}
