package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/parceldrop/parceldrop-backend/api/responses"
	"github.com/parceldrop/parceldrop-backend/api/validators"
	"github.com/parceldrop/parceldrop-backend/internal/riders"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
)

type riderRegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	District string `json:"district" validate:"required"`
	Region   string `json:"region"`
}

// RiderRegister files a rider application. Open route.
func RiderRegister(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload riderRegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rider, err := svc.Register(r.Context(), riders.RegisterInput{
			Name:     validators.SanitizeString(payload.Name, 120),
			Email:    payload.Email,
			Phone:    validators.SanitizeString(payload.Phone, 60),
			District: validators.SanitizeString(payload.District, 80),
			Region:   validators.SanitizeString(payload.Region, 80),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, riders.FromModel(rider))
	}
}

type riderDecideRequest struct {
	Decision string `json:"decision" validate:"required,oneof=active rejected"`
}

// RiderDecide resolves a pending application. Admin only.
func RiderDecide(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riderID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rider id"))
			return
		}

		var payload riderDecideRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		decision, err := enums.ParseRiderStatus(payload.Decision)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid decision"))
			return
		}

		rider, err := svc.Decide(r.Context(), riders.DecideInput{RiderID: riderID, Decision: decision})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, riders.FromModel(rider))
	}
}

// RiderListByStatus lists applications in a given state. Admin only.
func RiderListByStatus(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := enums.ParseRiderStatus(strings.TrimSpace(chi.URLParam(r, "status")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid rider status"))
			return
		}

		list, err := svc.ListByStatus(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, riders.FromModels(list))
	}
}

// RiderListAvailable lists approved riders free to take work, optionally
// narrowed to a district. Open to the assignment UI.
func RiderListAvailable(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		district := validators.SanitizeString(r.URL.Query().Get("district"), 80)

		list, err := svc.ListAvailable(r.Context(), district)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, riders.FromModels(list))
	}
}
