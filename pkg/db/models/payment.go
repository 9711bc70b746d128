package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

// Payment is the immutable ledger record created exactly once per successful
// payment confirmation. Its existence implies the referenced parcel was
// flipped to paid by the same operation; it is never updated or deleted.
type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParcelID      uuid.UUID           `gorm:"column:parcel_id;type:uuid;not null;index"`
	Email         string              `gorm:"column:email;type:text;not null;index"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency      string              `gorm:"column:currency;type:text;not null;default:'usd'"`
	Method        enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	TransactionID string              `gorm:"column:transaction_id;type:text;not null;uniqueIndex"`
	PaidAt        time.Time           `gorm:"column:paid_at;not null"`
}
