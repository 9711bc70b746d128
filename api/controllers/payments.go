package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parceldrop/parceldrop-backend/api/middleware"
	"github.com/parceldrop/parceldrop-backend/api/responses"
	"github.com/parceldrop/parceldrop-backend/api/validators"
	"github.com/parceldrop/parceldrop-backend/internal/parcels"
	"github.com/parceldrop/parceldrop-backend/internal/payments"
	"github.com/parceldrop/parceldrop-backend/internal/policy"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
)

type createIntentRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Currency    string `json:"currency"`
}

// PaymentCreateIntent asks the gateway for a client secret. Open route: it
// runs in the checkout flow before the payment is recorded.
func PaymentCreateIntent(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		intent, err := svc.CreateIntent(r.Context(), payments.CreateIntentInput{
			AmountCents: payload.AmountCents,
			Currency:    payload.Currency,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, intent)
	}
}

type recordPaymentRequest struct {
	ParcelID      string  `json:"parcel_id" validate:"required,uuid4"`
	Email         string  `json:"email" validate:"required,email"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency"`
	Method        string  `json:"method" validate:"required"`
	TransactionID string  `json:"transaction_id" validate:"required"`
}

// PaymentRecord confirms a payment: flips the parcel and writes the ledger
// row. Self-scoped: callers may only record against their own email.
func PaymentRecord(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recordPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.UserRole(middleware.RoleFromContext(r.Context()))
		caller := middleware.EmailFromContext(r.Context())
		if !policy.Allowed(role, caller, policy.OpRecordPayment, payload.Email) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "payments can only be recorded for your own account"))
			return
		}

		parcelID, err := uuid.Parse(payload.ParcelID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid parcel_id"))
			return
		}
		method, err := enums.ParsePaymentMethod(strings.TrimSpace(payload.Method))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method"))
			return
		}

		payment, err := svc.RecordPayment(r.Context(), parcels.RecordPaymentInput{
			ParcelID:      parcelID,
			Email:         payload.Email,
			Amount:        decimal.NewFromFloat(payload.Amount),
			Currency:      payload.Currency,
			Method:        method,
			TransactionID: strings.TrimSpace(payload.TransactionID),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// PaymentHistory lists the caller's payments, newest first. Admins may query
// any email.
func PaymentHistory(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := enums.UserRole(middleware.RoleFromContext(r.Context()))
		caller := middleware.EmailFromContext(r.Context())

		target := strings.TrimSpace(r.URL.Query().Get("email"))
		if target == "" {
			target = caller
		}
		if !policy.Allowed(role, caller, policy.OpPaymentHistory, target) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "payment history is scoped to your own account"))
			return
		}

		list, err := svc.History(r.Context(), target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
