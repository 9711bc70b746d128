package enums

import "fmt"

// CashoutStatus tracks whether a delivered parcel's collected payment has been
// settled with the rider.
type CashoutStatus string

const (
	CashoutStatusNotCashedOut CashoutStatus = "not_cashed_out"
	CashoutStatusCashedOut    CashoutStatus = "cashed_out"
)

var validCashoutStatuses = []CashoutStatus{
	CashoutStatusNotCashedOut,
	CashoutStatusCashedOut,
}

// String implements fmt.Stringer.
func (c CashoutStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CashoutStatus.
func (c CashoutStatus) IsValid() bool {
	for _, candidate := range validCashoutStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCashoutStatus converts raw input into a CashoutStatus.
func ParseCashoutStatus(value string) (CashoutStatus, error) {
	for _, candidate := range validCashoutStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cashout status %q", value)
}
