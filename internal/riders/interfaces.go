package riders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

// Repository defines persistence operations for the riders table.
type Repository interface {
	Create(ctx context.Context, rider *models.Rider) (*models.Rider, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rider, error)
	FindByEmail(ctx context.Context, email string) (*models.Rider, error)
	ListByStatus(ctx context.Context, status enums.RiderStatus) ([]models.Rider, error)
	ListAvailable(ctx context.Context, district string) ([]models.Rider, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RiderStatus) (int64, error)
	UpdateWorkStatus(ctx context.Context, id uuid.UUID, work enums.WorkStatus) (int64, error)
	ListStuckInDelivery(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Rider, error)
}

// roleUpdater is the slice of the users repository the rider service needs to
// elevate an approved rider's account.
type roleUpdater interface {
	UpdateRole(ctx context.Context, email string, role enums.UserRole) (int64, error)
}
