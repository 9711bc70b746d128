package payments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
)

// Repository defines read access to the immutable payments ledger. Inserts
// happen inside the parcel lifecycle engine so that the ledger row and the
// parcel flip stay one operation.
type Repository interface {
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
	FindByParcelID(ctx context.Context, parcelID uuid.UUID) (*models.Payment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a payments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	var out []models.Payment
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		Order("paid_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) FindByParcelID(ctx context.Context, parcelID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
