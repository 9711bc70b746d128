package parcels

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parceldrop/parceldrop-backend/internal/tracking"
	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

// Repository defines persistence operations for the parcels table and the
// payments ledger rows written alongside it.
//
// The Update* methods are conditional single-row updates keyed on the state
// they move away from. They report rows affected so callers can tell a lost
// race from a success without any in-process locking.
type Repository interface {
	Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error)
	FindByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error)
	List(ctx context.Context, filters Filters) ([]models.Parcel, error)
	StatusCounts(ctx context.Context) ([]StatusCount, error)

	AssignRider(ctx context.Context, parcelID uuid.UUID, rider *models.Rider) (int64, error)
	UpdateDeliveryStatus(ctx context.Context, parcelID uuid.UUID, from, to enums.DeliveryStatus, stamps map[string]any) (int64, error)
	MarkPaid(ctx context.Context, parcelID uuid.UUID) (int64, error)
	MarkCashedOut(ctx context.Context, parcelID uuid.UUID, at time.Time) (int64, error)
	DeletePending(ctx context.Context, parcelID uuid.UUID) (int64, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
}

// riderDirectory is the slice of the riders store the lifecycle engine needs:
// resolving a rider's identity at assignment time and flipping their work
// availability.
type riderDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rider, error)
	UpdateWorkStatus(ctx context.Context, id uuid.UUID, work enums.WorkStatus) (int64, error)
}

// trackingAppender writes audit entries to the tracking log. Appends are best
// effort; a failed append never rolls back the lifecycle change it records.
type trackingAppender interface {
	Append(ctx context.Context, input tracking.AppendInput) error
}
