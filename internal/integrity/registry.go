package integrity

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

type dependentAction int

const (
	// restrict rejects the delete while dependent rows exist.
	restrict dependentAction = iota
	// cascade removes dependent rows that only index the deleted row.
	cascade
	// detach nulls the dependent reference after freezing a snapshot.
	detach
)

type dependent struct {
	kind     enums.EntityKind
	column   string
	action   dependentAction
	snapshot string
}

type kindSpec struct {
	kind  enums.EntityKind
	table string
	// live narrows a parent lookup to rows that may still be referenced.
	live func(*gorm.DB) *gorm.DB
	// disable holds the assignments that retire the row in place of removal.
	disable    map[string]any
	dependents []dependent
	// protected returns columns Update must not touch, and the code to reject with.
	protected     func(models.Entity) map[string]string
	protectedCode pkgerrors.Code
}

var registry = buildRegistry()

func buildRegistry() map[enums.EntityKind]kindSpec {
	specs := []kindSpec{
		{
			kind:          enums.EntityKindUser,
			live:          func(db *gorm.DB) *gorm.DB { return db.Where("is_active = ?", true) },
			disable:       map[string]any{"is_active": false},
			protected:     userDefaults,
			protectedCode: pkgerrors.CodeValidation,
		},
		{
			kind:    enums.EntityKindShop,
			live:    func(db *gorm.DB) *gorm.DB { return db.Where("status <> ?", enums.ShopStatusDeleted) },
			disable: map[string]any{"status": enums.ShopStatusDeleted},
		},
		{
			kind:    enums.EntityKindProduct,
			live:    liveProduct,
			disable: map[string]any{"disabled": true},
		},
		{kind: enums.EntityKindProductOption},
		{kind: enums.EntityKindProductReview},
		{
			kind: enums.EntityKindShippingAddress,
			dependents: []dependent{
				{kind: enums.EntityKindUser, column: "default_shipping_address_id", action: restrict},
				{kind: enums.EntityKindOrder, column: "address_id", action: detach, snapshot: "shipping_snapshot"},
			},
		},
		{
			kind: enums.EntityKindCard,
			dependents: []dependent{
				{kind: enums.EntityKindUser, column: "default_card_id", action: restrict},
				{kind: enums.EntityKindOrder, column: "card_id", action: detach, snapshot: "card_snapshot"},
			},
		},
		{
			kind: enums.EntityKindOrder,
			dependents: []dependent{
				{kind: enums.EntityKindOrderProduct, column: "order_id", action: restrict},
				{kind: enums.EntityKindNotification, column: "order_id", action: restrict},
			},
			protected:     orderSnapshots,
			protectedCode: pkgerrors.CodeValidation,
		},
		{
			kind:          enums.EntityKindOrderProduct,
			protected:     orderProductStatus,
			protectedCode: pkgerrors.CodeInvalidTransition,
		},
		{kind: enums.EntityKindNotification},
		{
			kind: enums.EntityKindSaved,
			dependents: []dependent{
				{kind: enums.EntityKindSavedProduct, column: "saved_id", action: cascade},
			},
		},
		{kind: enums.EntityKindSavedProduct},
		{
			kind: enums.EntityKindCart,
			dependents: []dependent{
				{kind: enums.EntityKindCartProduct, column: "cart_id", action: cascade},
			},
		},
		{kind: enums.EntityKindCartProduct},
	}

	out := make(map[enums.EntityKind]kindSpec, len(specs))
	for _, spec := range specs {
		model, ok := models.New(spec.kind)
		if !ok {
			panic("integrity: no model for kind " + spec.kind.String())
		}
		spec.table = model.TableName()
		out[spec.kind] = spec
	}
	return out
}

func lookup(kind enums.EntityKind) (kindSpec, error) {
	spec, ok := registry[kind]
	if !ok {
		return kindSpec{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown entity kind").
			WithDetails(map[string]any{"kind": kind.String()})
	}
	return spec, nil
}

// liveProduct also retires the products of a deleted shop.
func liveProduct(db *gorm.DB) *gorm.DB {
	return db.Where("disabled = ?", false).
		Where("EXISTS (SELECT 1 FROM shops WHERE shops.id = products.shop_id AND shops.status <> ?)", enums.ShopStatusDeleted)
}

func userDefaults(e models.Entity) map[string]string {
	user := e.(*models.User)
	return map[string]string{
		"default_shipping_address_id": idString(user.DefaultShippingAddressID),
		"default_card_id":             idString(user.DefaultCardID),
	}
}

func orderProductStatus(e models.Entity) map[string]string {
	return map[string]string{"status": e.(*models.OrderProduct).Status.String()}
}

// orderSnapshots are written by the store from the referenced rows only.
func orderSnapshots(e models.Entity) map[string]string {
	order := e.(*models.Order)
	return map[string]string{
		"shipping_snapshot": valueString(order.ShippingSnapshot),
		"card_snapshot":     valueString(order.CardSnapshot),
	}
}

func valueString(v driver.Valuer) string {
	raw, err := v.Value()
	if err != nil || raw == nil {
		return ""
	}
	return fmt.Sprint(raw)
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// defaultColumn maps a defaultable kind onto its pointer column on users.
func defaultColumn(kind enums.EntityKind) (string, error) {
	switch kind {
	case enums.EntityKindShippingAddress:
		return "default_shipping_address_id", nil
	case enums.EntityKindCard:
		return "default_card_id", nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "kind has no per-user default").
		WithDetails(map[string]any{"kind": kind.String()})
}
