package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceldrop/parceldrop-backend/internal/parcels"
	"github.com/parceldrop/parceldrop-backend/internal/payments"
	"github.com/parceldrop/parceldrop-backend/internal/tracking"
	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

type stubTrackingSvc struct {
	tracking.Service
	events []models.TrackingEvent
}

func (s *stubTrackingSvc) History(_ context.Context, _ string) ([]models.TrackingEvent, error) {
	return s.events, nil
}

type stubParcelSvc struct {
	parcels.Service
	parcel *models.Parcel
	err    error
}

func (s *stubParcelSvc) GetByTrackingID(_ context.Context, _ string) (*models.Parcel, error) {
	return s.parcel, s.err
}

type stubPaymentSvc struct {
	payments.Service
	payment *models.Payment
}

func (s *stubPaymentSvc) ForParcel(_ context.Context, _ uuid.UUID) (*models.Payment, error) {
	return s.payment, nil
}

func getTrackingPage(t *testing.T, handler http.HandlerFunc, trackingID string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/trackings/{trackingId}", handler)
	req := httptest.NewRequest(http.MethodGet, "/trackings/"+trackingID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTrackingPageCombinesParcelPaymentAndEvents(t *testing.T) {
	parcelID := uuid.New()
	parcel := &models.Parcel{
		ID:               parcelID,
		TrackingID:       "PD-20260810-AB12CD34",
		CreatedBy:        "sender@example.com",
		Title:            "Books",
		SenderContact:    "01700000000",
		ReceiverContact:  "01800000000",
		SenderDistrict:   "Dhaka",
		ReceiverDistrict: "Sylhet",
		PaymentStatus:    enums.PaymentStatusPaid,
		DeliveryStatus:   enums.DeliveryStatusInTransit,
	}
	payment := &models.Payment{
		ID:            uuid.New(),
		ParcelID:      parcelID,
		Email:         "sender@example.com",
		Amount:        decimal.NewFromInt(150),
		Currency:      "usd",
		Method:        enums.PaymentMethodCard,
		TransactionID: "txn_abc123",
		PaidAt:        time.Now().UTC(),
	}
	events := []models.TrackingEvent{
		{TrackingID: parcel.TrackingID, ParcelID: parcelID, Status: "in_transit", Time: time.Now().UTC()},
		{TrackingID: parcel.TrackingID, ParcelID: parcelID, Status: "parcel_created", Time: time.Now().Add(-time.Hour).UTC()},
	}

	handler := TrackingHistory(
		&stubTrackingSvc{events: events},
		&stubParcelSvc{parcel: parcel},
		&stubPaymentSvc{payment: payment},
		nil,
	)
	w := getTrackingPage(t, handler, parcel.TrackingID)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	raw := w.Body.String()

	var envelope struct {
		Data trackingPageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope))

	page := envelope.Data
	assert.Equal(t, parcel.TrackingID, page.Parcel.TrackingID)
	assert.Equal(t, enums.DeliveryStatusInTransit, page.Parcel.DeliveryStatus)
	require.NotNil(t, page.Payment)
	assert.Equal(t, enums.PaymentMethodCard, page.Payment.Method)
	require.Len(t, page.Events, 2)

	// This route is open, so booking and payer identifiers must stay out.
	for _, secret := range []string{"sender@example.com", "01700000000", "txn_abc123"} {
		assert.NotContains(t, raw, secret)
	}
}

func TestTrackingPageUnpaidParcelOmitsPayment(t *testing.T) {
	parcel := &models.Parcel{
		ID:             uuid.New(),
		TrackingID:     "PD-20260810-00FF00FF",
		Title:          "Documents",
		PaymentStatus:  enums.PaymentStatusUnpaid,
		DeliveryStatus: enums.DeliveryStatusPending,
	}
	events := []models.TrackingEvent{
		{TrackingID: parcel.TrackingID, ParcelID: parcel.ID, Status: "parcel_created", Time: time.Now().UTC()},
	}

	handler := TrackingHistory(
		&stubTrackingSvc{events: events},
		&stubParcelSvc{parcel: parcel},
		&stubPaymentSvc{},
		nil,
	)
	w := getTrackingPage(t, handler, parcel.TrackingID)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), `"payment"`)
}
