package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

// Parcel is a shipment booking tracked through the delivery pipeline.
//
// delivery_status only ever moves forward along
// pending -> rider_assigned -> in_transit -> {delivered | service_center_delivered};
// the repository enforces this with conditional updates keyed on the source
// status. The rider identity fields are set together during assignment and
// never cleared afterwards.
type Parcel struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TrackingID string    `gorm:"column:tracking_id;type:text;not null;uniqueIndex"`
	CreatedBy  string    `gorm:"column:created_by;type:text;not null;index"`

	Title            string          `gorm:"column:title;type:text;not null"`
	SenderName       string          `gorm:"column:sender_name;type:text;not null"`
	SenderContact    string          `gorm:"column:sender_contact;type:text"`
	ReceiverName     string          `gorm:"column:receiver_name;type:text;not null"`
	ReceiverContact  string          `gorm:"column:receiver_contact;type:text"`
	SenderDistrict   string          `gorm:"column:sender_district;type:text"`
	ReceiverDistrict string          `gorm:"column:receiver_district;type:text"`
	WeightKG         decimal.Decimal `gorm:"column:weight_kg;type:numeric(10,3);not null"`
	CostCents        int             `gorm:"column:cost_cents;not null"`

	PaymentStatus  enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	DeliveryStatus enums.DeliveryStatus `gorm:"column:delivery_status;type:text;not null;default:'pending';index"`
	CashoutStatus  enums.CashoutStatus  `gorm:"column:cashout_status;type:text;not null;default:'not_cashed_out'"`

	AssignedRiderID    *uuid.UUID `gorm:"column:assigned_rider_id;type:uuid;index"`
	AssignedRiderEmail *string    `gorm:"column:assigned_rider_email;type:text;index"`
	AssignedRiderName  *string    `gorm:"column:assigned_rider_name;type:text"`

	PickedAt    *time.Time `gorm:"column:picked_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
	CashedOutAt *time.Time `gorm:"column:cashed_out_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:,sort:desc"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
