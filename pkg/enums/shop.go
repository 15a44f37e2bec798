package enums

import "fmt"

// ShopType represents what a shop sells.
type ShopType string

const (
	ShopTypeProducts ShopType = "products"
	ShopTypeServices ShopType = "services"
	ShopTypeBoth     ShopType = "both"
)

var validShopTypes = []ShopType{
	ShopTypeProducts,
	ShopTypeServices,
	ShopTypeBoth,
}

// String implements fmt.Stringer.
func (s ShopType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShopType.
func (s ShopType) IsValid() bool {
	for _, candidate := range validShopTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShopType converts raw input into a ShopType.
func ParseShopType(value string) (ShopType, error) {
	for _, candidate := range validShopTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop type %q", value)
}

// ShopStatus captures the vendor verification workflow. ShopStatusDeleted is the
// disable-in-place state: the row stays for order history.
type ShopStatus string

const (
	ShopStatusPending   ShopStatus = "pending"
	ShopStatusVerified  ShopStatus = "verified"
	ShopStatusSuspended ShopStatus = "suspended"
	ShopStatusRejected  ShopStatus = "rejected"
	ShopStatusDeleted   ShopStatus = "deleted"
)

var validShopStatuses = []ShopStatus{
	ShopStatusPending,
	ShopStatusVerified,
	ShopStatusSuspended,
	ShopStatusRejected,
	ShopStatusDeleted,
}

// String implements fmt.Stringer.
func (s ShopStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShopStatus.
func (s ShopStatus) IsValid() bool {
	for _, candidate := range validShopStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShopStatus converts raw input into a ShopStatus.
func ParseShopStatus(value string) (ShopStatus, error) {
	for _, candidate := range validShopStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop status %q", value)
}
