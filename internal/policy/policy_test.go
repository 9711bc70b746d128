package policy

import (
	"testing"

	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

func TestAdminOnlyOperations(t *testing.T) {
	ops := []Operation{OpDecideRider, OpListRiders, OpListUsers, OpChangeUserRole, OpAssignRider, OpStatusCounts, OpCashOut}
	for _, op := range ops {
		if !Allowed(enums.UserRoleAdmin, "admin@example.com", op, "") {
			t.Fatalf("%s: admin should be allowed", op)
		}
		if Allowed(enums.UserRoleUser, "user@example.com", op, "") {
			t.Fatalf("%s: plain user should be denied", op)
		}
		if Allowed(enums.UserRoleRider, "rider@example.com", op, "") {
			t.Fatalf("%s: rider should be denied", op)
		}
	}
}

func TestRiderOnlyOperations(t *testing.T) {
	ops := []Operation{OpRiderTaskList, OpRiderCompleted, OpAdvanceStatus}
	for _, op := range ops {
		if !Allowed(enums.UserRoleRider, "rider@example.com", op, "") {
			t.Fatalf("%s: rider should be allowed", op)
		}
		if !Allowed(enums.UserRoleAdmin, "admin@example.com", op, "") {
			t.Fatalf("%s: admin should pass", op)
		}
		if Allowed(enums.UserRoleUser, "user@example.com", op, "") {
			t.Fatalf("%s: plain user should be denied", op)
		}
	}
}

func TestSelfScopedOperations(t *testing.T) {
	if !Allowed(enums.UserRoleUser, "alice@example.com", OpPaymentHistory, "alice@example.com") {
		t.Fatalf("caller should read own payment history")
	}
	if !Allowed(enums.UserRoleUser, "Alice@Example.com", OpPaymentHistory, "alice@example.com") {
		t.Fatalf("email comparison should be case-insensitive")
	}
	if Allowed(enums.UserRoleUser, "mallory@example.com", OpPaymentHistory, "alice@example.com") {
		t.Fatalf("mismatched email should be denied")
	}
	if Allowed(enums.UserRoleUser, "", OpPaymentHistory, "") {
		t.Fatalf("empty caller email should be denied")
	}
	if !Allowed(enums.UserRoleAdmin, "admin@example.com", OpPaymentHistory, "alice@example.com") {
		t.Fatalf("admin can read any payment history")
	}
}

func TestOpenOperations(t *testing.T) {
	ops := []Operation{OpCreateParcel, OpTrackParcel, OpCreateIntent}
	for _, op := range ops {
		if !Allowed("", "", op, "") {
			t.Fatalf("%s: should be open to unauthenticated callers", op)
		}
		if !IsOpen(op) {
			t.Fatalf("%s: IsOpen should report true", op)
		}
	}
	if IsOpen(OpListUsers) {
		t.Fatalf("user listing is not open")
	}
}

func TestUnknownOperationDenied(t *testing.T) {
	if Allowed(enums.UserRoleUser, "x@example.com", Operation("made.up"), "") {
		t.Fatalf("unknown operations must be denied")
	}
}
