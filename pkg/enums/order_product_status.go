package enums

import "fmt"

// OrderProductStatus tracks fulfillment of a single order line.
type OrderProductStatus string

const (
	OrderProductStatusPending    OrderProductStatus = "pending"
	OrderProductStatusProcessing OrderProductStatus = "processing"
	OrderProductStatusShipped    OrderProductStatus = "shipped"
	OrderProductStatusDelivered  OrderProductStatus = "delivered"
	OrderProductStatusCancelled  OrderProductStatus = "cancelled"
)

var validOrderProductStatuses = []OrderProductStatus{
	OrderProductStatusPending,
	OrderProductStatusProcessing,
	OrderProductStatusShipped,
	OrderProductStatusDelivered,
	OrderProductStatusCancelled,
}

var orderProductTransitions = map[OrderProductStatus][]OrderProductStatus{
	OrderProductStatusPending:    {OrderProductStatusProcessing, OrderProductStatusCancelled},
	OrderProductStatusProcessing: {OrderProductStatusShipped, OrderProductStatusCancelled},
	OrderProductStatusShipped:    {OrderProductStatusDelivered},
}

// String implements fmt.Stringer.
func (o OrderProductStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderProductStatus.
func (o OrderProductStatus) IsValid() bool {
	for _, candidate := range validOrderProductStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// OrderProductStatuses lists every status in fulfillment order.
func OrderProductStatuses() []OrderProductStatus {
	return append([]OrderProductStatus(nil), validOrderProductStatuses...)
}

// IsTerminal reports whether no further transition is possible.
func (o OrderProductStatus) IsTerminal() bool {
	return len(orderProductTransitions[o]) == 0
}

// CanTransitionTo reports whether moving from o to next is legal.
func (o OrderProductStatus) CanTransitionTo(next OrderProductStatus) bool {
	for _, candidate := range orderProductTransitions[o] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseOrderProductStatus converts raw input into an OrderProductStatus.
func ParseOrderProductStatus(value string) (OrderProductStatus, error) {
	for _, candidate := range validOrderProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order product status %q", value)
}
