package riders

import (
	"time"

	"github.com/google/uuid"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

// RiderDTO is the transport shape for rider directory entries.
type RiderDTO struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone,omitempty"`
	District   string            `json:"district"`
	Region     string            `json:"region,omitempty"`
	Status     enums.RiderStatus `json:"status"`
	WorkStatus enums.WorkStatus  `json:"work_status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// RegisterInput carries a rider application. Applications always start in the
// pending state regardless of what the caller sends.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	District string
	Region   string
}

// DecideInput resolves a pending application one way or the other.
type DecideInput struct {
	RiderID  uuid.UUID
	Decision enums.RiderStatus
}

func FromModel(r *models.Rider) *RiderDTO {
	if r == nil {
		return nil
	}

	return &RiderDTO{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		District:   r.District,
		Region:     r.Region,
		Status:     r.Status,
		WorkStatus: r.WorkStatus,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromModels(list []models.Rider) []*RiderDTO {
	out := make([]*RiderDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
