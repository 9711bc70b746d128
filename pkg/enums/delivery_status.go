package enums

import "fmt"

// DeliveryStatus tracks a parcel's position in the delivery pipeline.
type DeliveryStatus string

const (
	DeliveryStatusPending                DeliveryStatus = "pending"
	DeliveryStatusRiderAssigned          DeliveryStatus = "rider_assigned"
	DeliveryStatusInTransit              DeliveryStatus = "in_transit"
	DeliveryStatusDelivered              DeliveryStatus = "delivered"
	DeliveryStatusServiceCenterDelivered DeliveryStatus = "service_center_delivered"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusRiderAssigned,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
	DeliveryStatusServiceCenterDelivered,
}

// deliveryStatusRank orders the pipeline so transitions can only move forward.
var deliveryStatusRank = map[DeliveryStatus]int{
	DeliveryStatusPending:                0,
	DeliveryStatusRiderAssigned:          1,
	DeliveryStatusInTransit:              2,
	DeliveryStatusDelivered:              3,
	DeliveryStatusServiceCenterDelivered: 3,
}

// String implements fmt.Stringer.
func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (d DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the pipeline.
func (d DeliveryStatus) IsTerminal() bool {
	return d == DeliveryStatusDelivered || d == DeliveryStatusServiceCenterDelivered
}

// CanTransitionTo reports whether next is one step forward from the current
// status. The pipeline is strictly monotonic: pending -> rider_assigned ->
// in_transit -> delivered | service_center_delivered, with no backward or
// skipped moves.
func (d DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	if !d.IsValid() || !next.IsValid() {
		return false
	}
	if d.IsTerminal() {
		return false
	}
	return deliveryStatusRank[next] == deliveryStatusRank[d]+1
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
