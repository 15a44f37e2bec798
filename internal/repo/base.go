package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/pagination"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// FindByID loads one row of T by primary key, mapping a miss to NOT_FOUND.
func FindByID[T any](ctx context.Context, b Base, id uuid.UUID, kind string) (*T, error) {
	var row T
	if err := b.DB(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, kind+" not found").
				WithDetails(map[string]any{"kind": kind, "id": id.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+kind)
	}
	return &row, nil
}

// Keyset narrows query to rows after cursor in descending (column, id) order
// and applies the buffered page limit.
func Keyset(query *gorm.DB, column string, cursor *pagination.Cursor, limit int) *gorm.DB {
	if cursor != nil {
		query = query.Where("("+column+" < ?) OR ("+column+" = ? AND id < ?)", cursor.At, cursor.At, cursor.ID)
	}
	return query.Order(column + " DESC").Order("id DESC").Limit(pagination.LimitWithBuffer(limit))
}

// ParseCursor decodes a page cursor, rejecting malformed input as a validation error.
func ParseCursor(value string) (*pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return cursor, nil
}
