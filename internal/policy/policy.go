package policy

import (
	"strings"

	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

// Operation names a capability a caller may attempt. The policy is a pure
// decision table, detached from transport concerns: middleware asks it before
// any mutating call reaches a service.
type Operation string

const (
	OpCreateParcel   Operation = "parcel.create"
	OpListOwnParcels Operation = "parcel.list_own"
	OpDeleteParcel   Operation = "parcel.delete"
	OpAssignRider    Operation = "parcel.assign_rider"
	OpAdvanceStatus  Operation = "parcel.advance_status"
	OpCashOut        Operation = "parcel.cashout"
	OpStatusCounts   Operation = "parcel.status_counts"

	OpRecordPayment  Operation = "payment.record"
	OpPaymentHistory Operation = "payment.history"
	OpCreateIntent   Operation = "payment.create_intent"

	OpRegisterRider  Operation = "rider.register"
	OpDecideRider    Operation = "rider.decide"
	OpListRiders     Operation = "rider.list"
	OpListAvailable  Operation = "rider.list_available"
	OpRiderTaskList  Operation = "rider.task_list"
	OpRiderCompleted Operation = "rider.completed_list"

	OpListUsers      Operation = "user.list"
	OpChangeUserRole Operation = "user.change_role"
	OpLookupUserRole Operation = "user.lookup_role"

	OpTrackParcel Operation = "tracking.lookup"
)

// adminOnly operations require the admin role.
var adminOnly = map[Operation]bool{
	OpDecideRider:    true,
	OpListRiders:     true,
	OpListUsers:      true,
	OpChangeUserRole: true,
	OpAssignRider:    true,
	OpStatusCounts:   true,
	OpCashOut:        true,
}

// riderOnly operations require the rider role.
var riderOnly = map[Operation]bool{
	OpRiderTaskList:  true,
	OpRiderCompleted: true,
	OpAdvanceStatus:  true,
}

// selfScoped operations additionally require the caller to target their own
// records. A mismatch is a policy denial, not a lookup miss.
var selfScoped = map[Operation]bool{
	OpPaymentHistory: true,
	OpListOwnParcels: true,
	OpRecordPayment:  true,
	OpDeleteParcel:   true,
}

// open operations are callable without authentication.
var open = map[Operation]bool{
	OpCreateParcel:   true,
	OpTrackParcel:    true,
	OpCreateIntent:   true,
	OpRegisterRider:  true,
	OpLookupUserRole: true,
	OpListAvailable:  true,
}

// Allowed decides whether a caller with the given role and email may perform
// the operation against the target email (empty when the operation has no
// per-record owner).
func Allowed(role enums.UserRole, callerEmail string, op Operation, targetEmail string) bool {
	if open[op] {
		return true
	}

	// Admins pass every non-open gate, including self-scoped reads of other
	// users' records.
	if role == enums.UserRoleAdmin {
		return true
	}

	if adminOnly[op] {
		return false
	}

	if riderOnly[op] {
		return role == enums.UserRoleRider
	}

	if selfScoped[op] {
		return callerEmail != "" && strings.EqualFold(callerEmail, targetEmail)
	}

	// Unknown operations are denied outright.
	return false
}

// IsOpen reports whether the operation is callable without a credential.
func IsOpen(op Operation) bool {
	return open[op]
}
