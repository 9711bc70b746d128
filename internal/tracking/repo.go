package tracking

import (
	"context"

	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
)

// Repository is the append-only store surface for tracking events.
type Repository interface {
	Append(ctx context.Context, event *models.TrackingEvent) error
	ListByTrackingID(ctx context.Context, trackingID string) ([]models.TrackingEvent, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tracking repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, event *models.TrackingEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListByTrackingID(ctx context.Context, trackingID string) ([]models.TrackingEvent, error) {
	var events []models.TrackingEvent
	err := r.db.WithContext(ctx).
		Where("tracking_id = ?", trackingID).
		Order("time DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
