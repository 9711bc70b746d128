package models

import (
	"time"

	"github.com/google/uuid"
)

// TrackingEvent is an append-only log entry recording a status or assignment
// change for a parcel. Rows are never mutated.
type TrackingEvent struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TrackingID string    `gorm:"column:tracking_id;type:text;not null;index"`
	ParcelID   uuid.UUID `gorm:"column:parcel_id;type:uuid;not null;index"`
	Status     string    `gorm:"column:status;type:text;not null"`
	Message    string    `gorm:"column:message;type:text"`
	UpdatedBy  string    `gorm:"column:updated_by;type:text"`
	Time       time.Time `gorm:"column:time;not null;index:,sort:desc"`
}
