package enums

import "fmt"

// EntityKind names one table of the marketplace schema.
type EntityKind string

const (
	EntityKindUser            EntityKind = "user"
	EntityKindShop            EntityKind = "shop"
	EntityKindProduct         EntityKind = "product"
	EntityKindProductOption   EntityKind = "product_option"
	EntityKindProductReview   EntityKind = "product_review"
	EntityKindOrder           EntityKind = "order"
	EntityKindOrderProduct    EntityKind = "order_product"
	EntityKindNotification    EntityKind = "notification"
	EntityKindSaved           EntityKind = "saved"
	EntityKindSavedProduct    EntityKind = "saved_product"
	EntityKindCart            EntityKind = "cart"
	EntityKindCartProduct     EntityKind = "cart_product"
	EntityKindShippingAddress EntityKind = "shipping_address"
	EntityKindCard            EntityKind = "card"
)

var validEntityKinds = []EntityKind{
	EntityKindUser,
	EntityKindShop,
	EntityKindProduct,
	EntityKindProductOption,
	EntityKindProductReview,
	EntityKindOrder,
	EntityKindOrderProduct,
	EntityKindNotification,
	EntityKindSaved,
	EntityKindSavedProduct,
	EntityKindCart,
	EntityKindCartProduct,
	EntityKindShippingAddress,
	EntityKindCard,
}

// String implements fmt.Stringer.
func (k EntityKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known EntityKind.
func (k EntityKind) IsValid() bool {
	for _, candidate := range validEntityKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// EntityKinds returns every kind in schema order (parents before children).
func EntityKinds() []EntityKind {
	out := make([]EntityKind, len(validEntityKinds))
	copy(out, validEntityKinds)
	return out
}

// ParseEntityKind converts raw input into an EntityKind.
func ParseEntityKind(value string) (EntityKind, error) {
	for _, candidate := range validEntityKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity kind %q", value)
}
