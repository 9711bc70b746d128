package parcels

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

// NewRepository constructs a parcels repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error) {
	if err := r.db.WithContext(ctx).Create(parcel).Error; err != nil {
		return nil, err
	}
	return parcel, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.db.WithContext(ctx).First(&parcel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &parcel, nil
}

func (r *repository) FindByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.db.WithContext(ctx).Where("tracking_id = ?", trackingID).First(&parcel).Error; err != nil {
		return nil, err
	}
	return &parcel, nil
}

func (r *repository) List(ctx context.Context, filters Filters) ([]models.Parcel, error) {
	q := r.db.WithContext(ctx).Model(&models.Parcel{})

	if filters.CreatedBy != "" {
		q = q.Where("created_by = ?", strings.ToLower(filters.CreatedBy))
	}
	if filters.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filters.PaymentStatus)
	}
	if filters.RiderEmail != "" {
		q = q.Where("assigned_rider_email = ?", strings.ToLower(filters.RiderEmail))
	}
	if len(filters.Statuses) > 0 {
		q = q.Where("delivery_status IN ?", filters.Statuses)
	} else if filters.DeliveryStatus != "" {
		q = q.Where("delivery_status = ?", filters.DeliveryStatus)
	}

	var out []models.Parcel
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Select("delivery_status AS status, COUNT(*) AS count").
		Group("delivery_status").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AssignRider stamps the rider identity onto the parcel if and only if it is
// still pending. Zero rows means the parcel is missing or was already taken.
func (r *repository) AssignRider(ctx context.Context, parcelID uuid.UUID, rider *models.Rider) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ?", parcelID).
		Where("delivery_status = ?", enums.DeliveryStatusPending).
		Updates(map[string]any{
			"delivery_status":      enums.DeliveryStatusRiderAssigned,
			"assigned_rider_id":    rider.ID,
			"assigned_rider_email": rider.Email,
			"assigned_rider_name":  rider.Name,
		})
	return res.RowsAffected, res.Error
}

// UpdateDeliveryStatus applies one forward step keyed on the status the caller
// observed. stamps carries extra columns set atomically with the move, such as
// picked_at or delivered_at.
func (r *repository) UpdateDeliveryStatus(ctx context.Context, parcelID uuid.UUID, from, to enums.DeliveryStatus, stamps map[string]any) (int64, error) {
	updates := map[string]any{"delivery_status": to}
	for col, val := range stamps {
		updates[col] = val
	}

	res := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ?", parcelID).
		Where("delivery_status = ?", from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// MarkPaid flips payment_status from unpaid to paid. Zero rows means the
// parcel is missing or already paid; the caller treats both the same way.
func (r *repository) MarkPaid(ctx context.Context, parcelID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ?", parcelID).
		Where("payment_status = ?", enums.PaymentStatusUnpaid).
		UpdateColumn("payment_status", enums.PaymentStatusPaid)
	return res.RowsAffected, res.Error
}

// MarkCashedOut settles the rider's collected cash for a completed delivery.
// The WHERE clause re-checks both preconditions so a racing call loses cleanly.
func (r *repository) MarkCashedOut(ctx context.Context, parcelID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ?", parcelID).
		Where("cashout_status = ?", enums.CashoutStatusNotCashedOut).
		Where("delivery_status IN ?", CompletedStatuses).
		Updates(map[string]any{
			"cashout_status": enums.CashoutStatusCashedOut,
			"cashed_out_at":  at,
		})
	return res.RowsAffected, res.Error
}

// DeletePending removes a parcel that has not entered the pipeline yet. Paid
// parcels are excluded so their ledger rows are never orphaned.
func (r *repository) DeletePending(ctx context.Context, parcelID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", parcelID).
		Where("delivery_status = ?", enums.DeliveryStatusPending).
		Where("payment_status = ?", enums.PaymentStatusUnpaid).
		Delete(&models.Parcel{})
	return res.RowsAffected, res.Error
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}
