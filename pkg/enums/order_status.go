package enums

import "fmt"

// OrderStatus is the lifecycle status carried by a raw order record.
type OrderStatus string

const (
	OrderStatusCreated     OrderStatus = "created"
	OrderStatusApproved    OrderStatus = "approved"
	OrderStatusInvoiced    OrderStatus = "invoiced"
	OrderStatusProcessing  OrderStatus = "processing"
	OrderStatusShipped     OrderStatus = "shipped"
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusCanceled    OrderStatus = "canceled"
	OrderStatusUnavailable OrderStatus = "unavailable"
)

var knownOrderStatuses = []OrderStatus{
	OrderStatusCreated,
	OrderStatusApproved,
	OrderStatusInvoiced,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
	OrderStatusUnavailable,
}

// excludedOrderStatuses is a closed list; every other value counts as a valid order.
var excludedOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusCanceled:    {},
	OrderStatusUnavailable: {},
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsKnown reports whether the value is one of the statuses seen in the dataset.
// Unknown statuses are still valid orders.
func (s OrderStatus) IsKnown() bool {
	for _, candidate := range knownOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsExcluded reports whether orders with this status are dropped from the fact table.
func (s OrderStatus) IsExcluded() bool {
	_, ok := excludedOrderStatuses[s]
	return ok
}

// ParseOrderStatus converts raw input into a known OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range knownOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
