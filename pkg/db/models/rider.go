package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

// Rider holds the directory entry for a delivery rider: the admin-controlled
// approval state plus the current work availability.
type Rider struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string    `gorm:"column:name;type:text;not null"`
	Email    string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone    string    `gorm:"column:phone;type:text"`
	District string    `gorm:"column:district;type:text;not null;index"`
	Region   string    `gorm:"column:region;type:text"`

	Status     enums.RiderStatus `gorm:"column:status;type:text;not null;default:'pending';index"`
	WorkStatus enums.WorkStatus  `gorm:"column:work_status;type:text;not null;default:'available';index"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
