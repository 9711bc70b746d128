package parcels

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

// CreateInput carries a new parcel booking.
type CreateInput struct {
	CreatedBy        string
	Title            string
	SenderName       string
	SenderContact    string
	ReceiverName     string
	ReceiverContact  string
	SenderDistrict   string
	ReceiverDistrict string
	WeightKG         decimal.Decimal
	CostCents        int
}

// AssignRiderInput names the parcel and the rider taking it.
type AssignRiderInput struct {
	ParcelID   uuid.UUID
	RiderID    uuid.UUID
	ActorEmail string
}

// AdvanceStatusInput moves a parcel one step forward in the pipeline.
type AdvanceStatusInput struct {
	ParcelID   uuid.UUID
	Next       enums.DeliveryStatus
	ActorEmail string
}

// RecordPaymentInput confirms payment for a parcel and describes the ledger
// row to write alongside the flip.
type RecordPaymentInput struct {
	ParcelID      uuid.UUID
	Email         string
	Amount        decimal.Decimal
	Currency      string
	Method        enums.PaymentMethod
	TransactionID string
}

// Filters narrows parcel listings. Zero values mean "no filter"; Statuses
// takes precedence over DeliveryStatus when both are set.
type Filters struct {
	CreatedBy      string
	PaymentStatus  enums.PaymentStatus
	DeliveryStatus enums.DeliveryStatus
	RiderEmail     string
	Statuses       []enums.DeliveryStatus
}

// StatusCount is one row of the per-status parcel tally.
type StatusCount struct {
	Status enums.DeliveryStatus `json:"status"`
	Count  int64                `json:"count"`
}

// ParcelDTO is the transport shape for a parcel.
type ParcelDTO struct {
	ID               uuid.UUID            `json:"id"`
	TrackingID       string               `json:"tracking_id"`
	CreatedBy        string               `json:"created_by"`
	Title            string               `json:"title"`
	SenderName       string               `json:"sender_name"`
	SenderContact    string               `json:"sender_contact,omitempty"`
	ReceiverName     string               `json:"receiver_name"`
	ReceiverContact  string               `json:"receiver_contact,omitempty"`
	SenderDistrict   string               `json:"sender_district,omitempty"`
	ReceiverDistrict string               `json:"receiver_district,omitempty"`
	WeightKG         decimal.Decimal      `json:"weight_kg"`
	CostCents        int                  `json:"cost_cents"`
	PaymentStatus    enums.PaymentStatus  `json:"payment_status"`
	DeliveryStatus   enums.DeliveryStatus `json:"delivery_status"`
	CashoutStatus    enums.CashoutStatus  `json:"cashout_status"`
	AssignedRiderID  *uuid.UUID           `json:"assigned_rider_id,omitempty"`
	AssignedRider    *string              `json:"assigned_rider_email,omitempty"`
	PickedAt         *time.Time           `json:"picked_at,omitempty"`
	DeliveredAt      *time.Time           `json:"delivered_at,omitempty"`
	CashedOutAt      *time.Time           `json:"cashed_out_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func FromModel(p *models.Parcel) *ParcelDTO {
	if p == nil {
		return nil
	}

	return &ParcelDTO{
		ID:               p.ID,
		TrackingID:       p.TrackingID,
		CreatedBy:        p.CreatedBy,
		Title:            p.Title,
		SenderName:       p.SenderName,
		SenderContact:    p.SenderContact,
		ReceiverName:     p.ReceiverName,
		ReceiverContact:  p.ReceiverContact,
		SenderDistrict:   p.SenderDistrict,
		ReceiverDistrict: p.ReceiverDistrict,
		WeightKG:         p.WeightKG,
		CostCents:        p.CostCents,
		PaymentStatus:    p.PaymentStatus,
		DeliveryStatus:   p.DeliveryStatus,
		CashoutStatus:    p.CashoutStatus,
		AssignedRiderID:  p.AssignedRiderID,
		AssignedRider:    p.AssignedRiderEmail,
		PickedAt:         p.PickedAt,
		DeliveredAt:      p.DeliveredAt,
		CashedOutAt:      p.CashedOutAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func FromModels(list []models.Parcel) []*ParcelDTO {
	out := make([]*ParcelDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

// PendingWorkStatuses is the status set a rider's open task list covers.
var PendingWorkStatuses = []enums.DeliveryStatus{
	enums.DeliveryStatusRiderAssigned,
	enums.DeliveryStatusInTransit,
}

// CompletedStatuses is the terminal status set for a rider's history list.
var CompletedStatuses = []enums.DeliveryStatus{
	enums.DeliveryStatusDelivered,
	enums.DeliveryStatusServiceCenterDelivered,
}
