package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/parceldrop/parceldrop-backend/api/responses"
	"github.com/parceldrop/parceldrop-backend/internal/parcels"
	"github.com/parceldrop/parceldrop-backend/internal/payments"
	"github.com/parceldrop/parceldrop-backend/internal/tracking"
	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
)

// trackingParcelSummary is the redacted parcel view for the public tracking
// page. Contact details and the booking email stay off the open route.
type trackingParcelSummary struct {
	TrackingID       string               `json:"tracking_id"`
	Title            string               `json:"title"`
	SenderDistrict   string               `json:"sender_district,omitempty"`
	ReceiverDistrict string               `json:"receiver_district,omitempty"`
	DeliveryStatus   enums.DeliveryStatus `json:"delivery_status"`
	PaymentStatus    enums.PaymentStatus  `json:"payment_status"`
	PickedAt         *time.Time           `json:"picked_at,omitempty"`
	DeliveredAt      *time.Time           `json:"delivered_at,omitempty"`
}

// trackingPaymentSummary carries the payment state without the payer's email
// or the gateway transaction id.
type trackingPaymentSummary struct {
	Amount   decimal.Decimal     `json:"amount"`
	Currency string              `json:"currency"`
	Method   enums.PaymentMethod `json:"method"`
	PaidAt   time.Time           `json:"paid_at"`
}

type trackingPageResponse struct {
	Parcel  trackingParcelSummary   `json:"parcel"`
	Payment *trackingPaymentSummary `json:"payment,omitempty"`
	Events  []models.TrackingEvent  `json:"events"`
}

// TrackingHistory serves the public tracking page: the parcel's current state,
// its payment state when a ledger row exists, and the full event log newest
// first. Open route.
func TrackingHistory(svc tracking.Service, parcelSvc parcels.Service, paySvc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackingID := strings.TrimSpace(chi.URLParam(r, "trackingId"))
		if trackingID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tracking id is required"))
			return
		}

		parcel, err := parcelSvc.GetByTrackingID(r.Context(), trackingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := paySvc.ForParcel(r.Context(), parcel.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events, err := svc.History(r.Context(), parcel.TrackingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := trackingPageResponse{
			Parcel: trackingParcelSummary{
				TrackingID:       parcel.TrackingID,
				Title:            parcel.Title,
				SenderDistrict:   parcel.SenderDistrict,
				ReceiverDistrict: parcel.ReceiverDistrict,
				DeliveryStatus:   parcel.DeliveryStatus,
				PaymentStatus:    parcel.PaymentStatus,
				PickedAt:         parcel.PickedAt,
				DeliveredAt:      parcel.DeliveredAt,
			},
			Events: events,
		}
		if payment != nil {
			page.Payment = &trackingPaymentSummary{
				Amount:   payment.Amount,
				Currency: payment.Currency,
				Method:   payment.Method,
				PaidAt:   payment.PaidAt,
			}
		}
		responses.WriteSuccess(w, page)
	}
}
