package integrity

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// GetAs is Get for a concrete model type.
func GetAs[T models.Entity](ctx context.Context, s *Store, id uuid.UUID) (T, error) {
	var zero T
	entity, err := s.Get(ctx, kindOf[T](), id)
	if err != nil {
		return zero, err
	}
	return cast[T](entity)
}

// UpdateAs is Update for a concrete model type.
func UpdateAs[T models.Entity](ctx context.Context, s *Store, id uuid.UUID, mutate func(T) error) (T, error) {
	var zero T
	entity, err := s.Update(ctx, kindOf[T](), id, func(e models.Entity) error {
		typed, err := cast[T](e)
		if err != nil {
			return err
		}
		return mutate(typed)
	})
	if err != nil {
		return zero, err
	}
	return cast[T](entity)
}

// TxGetAs is Tx.Get for a concrete model type.
func TxGetAs[T models.Entity](tx *Tx, id uuid.UUID) (T, error) {
	var zero T
	entity, err := tx.Get(kindOf[T](), id)
	if err != nil {
		return zero, err
	}
	return cast[T](entity)
}

func kindOf[T models.Entity]() enums.EntityKind {
	var zero T
	return reflect.New(reflect.TypeOf(zero).Elem()).Interface().(T).Kind()
}

func cast[T models.Entity](entity models.Entity) (T, error) {
	typed, ok := entity.(T)
	if !ok {
		var zero T
		return zero, pkgerrors.New(pkgerrors.CodeInternal, "unexpected entity type")
	}
	return typed, nil
}

// TxUpdateAs is Tx.Update for a concrete model type.
func TxUpdateAs[T models.Entity](tx *Tx, id uuid.UUID, mutate func(T) error) (T, error) {
	var zero T
	entity, err := tx.Update(kindOf[T](), id, func(e models.Entity) error {
		typed, err := cast[T](e)
		if err != nil {
			return err
		}
		return mutate(typed)
	})
	if err != nil {
		return zero, err
	}
	return cast[T](entity)
}
