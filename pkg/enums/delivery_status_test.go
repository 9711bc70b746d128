package enums

import "testing"

func TestDeliveryStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    DeliveryStatus
		to      DeliveryStatus
		allowed bool
	}{
		{DeliveryStatusPending, DeliveryStatusRiderAssigned, true},
		{DeliveryStatusRiderAssigned, DeliveryStatusInTransit, true},
		{DeliveryStatusInTransit, DeliveryStatusDelivered, true},
		{DeliveryStatusInTransit, DeliveryStatusServiceCenterDelivered, true},

		{DeliveryStatusPending, DeliveryStatusInTransit, false},
		{DeliveryStatusPending, DeliveryStatusDelivered, false},
		{DeliveryStatusRiderAssigned, DeliveryStatusPending, false},
		{DeliveryStatusInTransit, DeliveryStatusRiderAssigned, false},
		{DeliveryStatusDelivered, DeliveryStatusInTransit, false},
		{DeliveryStatusDelivered, DeliveryStatusServiceCenterDelivered, false},
		{DeliveryStatusServiceCenterDelivered, DeliveryStatusDelivered, false},
		{DeliveryStatusInTransit, DeliveryStatusInTransit, false},
		{DeliveryStatusPending, DeliveryStatus("lost"), false},
		{DeliveryStatus("lost"), DeliveryStatusDelivered, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Fatalf("%s -> %s: expected allowed=%v got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestDeliveryStatusIsTerminal(t *testing.T) {
	if DeliveryStatusPending.IsTerminal() || DeliveryStatusRiderAssigned.IsTerminal() || DeliveryStatusInTransit.IsTerminal() {
		t.Fatalf("non-terminal status reported terminal")
	}
	if !DeliveryStatusDelivered.IsTerminal() || !DeliveryStatusServiceCenterDelivered.IsTerminal() {
		t.Fatalf("terminal status not reported terminal")
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	for _, valid := range validDeliveryStatuses {
		parsed, err := ParseDeliveryStatus(string(valid))
		if err != nil {
			t.Fatalf("parse %s: %v", valid, err)
		}
		if parsed != valid {
			t.Fatalf("parse %s returned %s", valid, parsed)
		}
	}
	if _, err := ParseDeliveryStatus("teleported"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
