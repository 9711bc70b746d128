package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parceldrop/parceldrop-backend/api/middleware"
	"github.com/parceldrop/parceldrop-backend/api/responses"
	"github.com/parceldrop/parceldrop-backend/api/validators"
	"github.com/parceldrop/parceldrop-backend/internal/parcels"
	"github.com/parceldrop/parceldrop-backend/internal/policy"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
)

type parcelCreateRequest struct {
	CreatedBy        string  `json:"created_by" validate:"required,email"`
	Title            string  `json:"title" validate:"required"`
	SenderName       string  `json:"sender_name" validate:"required"`
	SenderContact    string  `json:"sender_contact"`
	ReceiverName     string  `json:"receiver_name" validate:"required"`
	ReceiverContact  string  `json:"receiver_contact"`
	SenderDistrict   string  `json:"sender_district"`
	ReceiverDistrict string  `json:"receiver_district"`
	WeightKG         float64 `json:"weight_kg" validate:"required,gt=0"`
	CostCents        int     `json:"cost_cents" validate:"gte=0"`
}

// ParcelCreate books a new parcel. Open route: the booking form runs before
// the sender signs in.
func ParcelCreate(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload parcelCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parcel, err := svc.Create(r.Context(), parcels.CreateInput{
			CreatedBy:        payload.CreatedBy,
			Title:            validators.SanitizeString(payload.Title, 200),
			SenderName:       validators.SanitizeString(payload.SenderName, 120),
			SenderContact:    validators.SanitizeString(payload.SenderContact, 60),
			ReceiverName:     validators.SanitizeString(payload.ReceiverName, 120),
			ReceiverContact:  validators.SanitizeString(payload.ReceiverContact, 60),
			SenderDistrict:   validators.SanitizeString(payload.SenderDistrict, 80),
			ReceiverDistrict: validators.SanitizeString(payload.ReceiverDistrict, 80),
			WeightKG:         decimal.NewFromFloat(payload.WeightKG),
			CostCents:        payload.CostCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, parcels.FromModel(parcel))
	}
}

// ParcelList serves both the admin view and the sender's own list. Admins see
// everything and may filter freely; everyone else is pinned to their own
// bookings.
func ParcelList(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := enums.UserRole(middleware.RoleFromContext(r.Context()))
		email := middleware.EmailFromContext(r.Context())

		filters := parcels.Filters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
			status, err := enums.ParsePaymentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment_status"))
				return
			}
			filters.PaymentStatus = status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("delivery_status")); raw != "" {
			status, err := enums.ParseDeliveryStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery_status"))
				return
			}
			filters.DeliveryStatus = status
		}

		if role == enums.UserRoleAdmin {
			filters.CreatedBy = strings.TrimSpace(r.URL.Query().Get("created_by"))
		} else {
			if !policy.Allowed(role, email, policy.OpListOwnParcels, email) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access denied"))
				return
			}
			filters.CreatedBy = email
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, parcels.FromModels(list))
	}
}

// ParcelGet loads a single parcel by id.
func ParcelGet(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseParcelID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parcel, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.UserRole(middleware.RoleFromContext(r.Context()))
		email := middleware.EmailFromContext(r.Context())
		if !policy.Allowed(role, email, policy.OpListOwnParcels, parcel.CreatedBy) && !assignedTo(parcel.AssignedRiderEmail, email) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access denied"))
			return
		}
		responses.WriteSuccess(w, parcels.FromModel(parcel))
	}
}

// ParcelDelete removes a pending booking. Ownership is enforced in the
// service where the record is loaded.
func ParcelDelete(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseParcelID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.UserRole(middleware.RoleFromContext(r.Context()))
		email := middleware.EmailFromContext(r.Context())
		if err := svc.Delete(r.Context(), id, email, role); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type assignRiderRequest struct {
	RiderID string `json:"rider_id" validate:"required,uuid4"`
}

// ParcelAssignRider hands a pending parcel to a rider. Admin only.
func ParcelAssignRider(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseParcelID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignRiderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		riderID, err := uuid.Parse(payload.RiderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rider_id"))
			return
		}

		parcel, err := svc.AssignRider(r.Context(), parcels.AssignRiderInput{
			ParcelID:   id,
			RiderID:    riderID,
			ActorEmail: middleware.EmailFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, parcels.FromModel(parcel))
	}
}

type advanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ParcelAdvanceStatus moves the parcel one step forward in the pipeline.
func ParcelAdvanceStatus(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseParcelID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload advanceStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next, err := enums.ParseDeliveryStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery status"))
			return
		}

		err = svc.AdvanceStatus(r.Context(), parcels.AdvanceStatusInput{
			ParcelID:   id,
			Next:       next,
			ActorEmail: middleware.EmailFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(next)})
	}
}

// ParcelCashOut settles collected cash for a completed delivery. Admin only.
func ParcelCashOut(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseParcelID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CashOut(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(enums.CashoutStatusCashedOut)})
	}
}

// ParcelStatusCounts serves the admin dashboard tally. Admin only.
func ParcelStatusCounts(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.StatusCounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counts)
	}
}

// RiderTaskList serves the rider's open deliveries.
func RiderTaskList(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.RiderPending(r.Context(), middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, parcels.FromModels(list))
	}
}

// RiderCompletedList serves the rider's finished deliveries.
func RiderCompletedList(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.RiderCompleted(r.Context(), middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, parcels.FromModels(list))
	}
}

func parseParcelID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid parcel id")
	}
	return id, nil
}

func assignedTo(riderEmail *string, callerEmail string) bool {
	return riderEmail != nil && callerEmail != "" && strings.EqualFold(*riderEmail, callerEmail)
}
