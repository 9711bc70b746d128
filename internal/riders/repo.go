package riders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a riders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rider *models.Rider) (*models.Rider, error) {
	if err := r.db.WithContext(ctx).Create(rider).Error; err != nil {
		return nil, err
	}
	return rider, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).First(&rider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&rider).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.RiderStatus) ([]models.Rider, error) {
	var out []models.Rider
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAvailable returns approved riders who are free to take work. District
// narrows the result when non-empty.
func (r *repository) ListAvailable(ctx context.Context, district string) ([]models.Rider, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", enums.RiderStatusActive).
		Where("work_status = ?", enums.WorkStatusAvailable)
	if district != "" {
		q = q.Where("district = ?", district)
	}

	var out []models.Rider
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RiderStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateWorkStatus(ctx context.Context, id uuid.UUID, work enums.WorkStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", id).
		UpdateColumn("work_status", work)
	return res.RowsAffected, res.Error
}

// ListStuckInDelivery finds riders marked busy with no open parcel assigned
// to them. These are the leftovers of assignment partial failures and missed
// releases; the reconciliation sweep flips them back.
func (r *repository) ListStuckInDelivery(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Rider, error) {
	openStatuses := []enums.DeliveryStatus{
		enums.DeliveryStatusRiderAssigned,
		enums.DeliveryStatusInTransit,
	}

	q := r.db.WithContext(ctx).
		Where("work_status = ?", enums.WorkStatusInDelivery).
		Where("updated_at < ?", updatedBefore).
		Where("NOT EXISTS (SELECT 1 FROM parcels WHERE parcels.assigned_rider_id = riders.id AND parcels.delivery_status IN ?)", openStatuses).
		Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Rider
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
