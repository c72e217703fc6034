package enum

import (
	"database/sql/driver"
	"fmt"
)

// OrderStatus represents the lifecycle state of a restaurant order
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions lists the statuses each status may move to.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusOpen:      {OrderStatusPending, OrderStatusConfirmed, OrderStatusServed, OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusServed, OrderStatusPaid, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusServed, OrderStatusPaid, OrderStatusCancelled},
	OrderStatusServed:    {OrderStatusPaid, OrderStatusCancelled},
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusPending, OrderStatusConfirmed, OrderStatusServed,
		OrderStatusPaid, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further changes are allowed on the order
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RecentMatchStatuses are the statuses eligible for the recency fallback
// when matching a payment to an order.
func RecentMatchStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPaid, OrderStatusServed, OrderStatusCompleted, OrderStatusOpen}
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusOpen
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	default:
		return fmt.Errorf("unsupported order status type %T", value)
	}
	return nil
}
