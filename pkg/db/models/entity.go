package models

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/pkg/enums"
)

// Entity is implemented by every persisted marketplace row.
type Entity interface {
	TableName() string
	Kind() enums.EntityKind
	PrimaryID() uuid.UUID
	// ApplyDefaults fills the id and any column defaults left at their zero value.
	ApplyDefaults()
	// References lists the foreign-key-shaped attributes of the row.
	References() []Reference
}

// Reference describes one foreign key held by a row.
type Reference struct {
	Column   string
	Kind     enums.EntityKind
	ID       *uuid.UUID
	Required bool
	// OwnerID, when set, requires the parent row's user_id to match.
	OwnerID *uuid.UUID
}

// Missing reports whether the reference carries no parent id.
func (r Reference) Missing() bool {
	return r.ID == nil || *r.ID == uuid.Nil
}

// SameTarget reports whether two references point at the same parent under the same owner.
func (r Reference) SameTarget(other Reference) bool {
	if r.Missing() || other.Missing() {
		return r.Missing() == other.Missing()
	}
	if *r.ID != *other.ID {
		return false
	}
	if r.OwnerID == nil || other.OwnerID == nil {
		return r.OwnerID == other.OwnerID
	}
	return *r.OwnerID == *other.OwnerID
}

func required(column string, kind enums.EntityKind, id uuid.UUID) Reference {
	return Reference{Column: column, Kind: kind, ID: &id, Required: true}
}

func optional(column string, kind enums.EntityKind, id *uuid.UUID) Reference {
	ref := Reference{Column: column, Kind: kind}
	if id != nil {
		value := *id
		ref.ID = &value
	}
	return ref
}

// CreatedAt returns the row's created_at, or the zero time for a model without one.
func CreatedAt(e Entity) time.Time {
	field := reflect.Indirect(reflect.ValueOf(e)).FieldByName("CreatedAt")
	if !field.IsValid() {
		return time.Time{}
	}
	created, _ := field.Interface().(time.Time)
	return created
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns a zero value of every model, parents before children.
func All() []Entity {
	return []Entity{
		&User{},
		&Shop{},
		&Product{},
		&ProductOption{},
		&ProductReview{},
		&ShippingAddress{},
		&Card{},
		&Order{},
		&OrderProduct{},
		&Notification{},
		&Saved{},
		&SavedProduct{},
		&Cart{},
		&CartProduct{},
	}
}

// New returns an empty model for the given kind.
func New(kind enums.EntityKind) (Entity, bool) {
	for _, model := range All() {
		if model.Kind() == kind {
			return model, true
		}
	}
	return nil, false
}
