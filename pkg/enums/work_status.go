package enums

import "fmt"

// WorkStatus tracks whether a rider is currently occupied with a delivery.
type WorkStatus string

const (
	WorkStatusAvailable  WorkStatus = "available"
	WorkStatusInDelivery WorkStatus = "in_delivery"
)

var validWorkStatuses = []WorkStatus{
	WorkStatusAvailable,
	WorkStatusInDelivery,
}

// String implements fmt.Stringer.
func (w WorkStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WorkStatus.
func (w WorkStatus) IsValid() bool {
	for _, candidate := range validWorkStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWorkStatus converts raw input into a WorkStatus.
func ParseWorkStatus(value string) (WorkStatus, error) {
	for _, candidate := range validWorkStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid work status %q", value)
}
