package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parceldrop/parceldrop-backend/api/controllers"
	"github.com/parceldrop/parceldrop-backend/api/middleware"
	"github.com/parceldrop/parceldrop-backend/internal/parcels"
	"github.com/parceldrop/parceldrop-backend/internal/payments"
	"github.com/parceldrop/parceldrop-backend/internal/policy"
	"github.com/parceldrop/parceldrop-backend/internal/riders"
	"github.com/parceldrop/parceldrop-backend/internal/tracking"
	"github.com/parceldrop/parceldrop-backend/internal/users"
	"github.com/parceldrop/parceldrop-backend/pkg/auth/session"
	"github.com/parceldrop/parceldrop-backend/pkg/config"
	"github.com/parceldrop/parceldrop-backend/pkg/db"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
	"github.com/parceldrop/parceldrop-backend/pkg/redis"
)

// Deps gathers everything the HTTP surface needs. Controllers stay thin:
// envelope translation only, all rules live in the services.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions *session.Manager

	Users    *users.Repository
	Parcels  parcels.Service
	Riders   riders.Service
	Tracking tracking.Service
	Payments payments.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	authed := middleware.Auth(cfg.JWT, d.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(d.Users, cfg.Password, logg))
			r.Post("/login", controllers.AuthLogin(d.Users, d.Sessions, cfg.JWT, logg))
			r.Post("/logout", controllers.AuthLogout(d.Sessions, cfg.JWT, logg))
		})

		// Open routes: booking, tracking lookup, payment intent, rider signup.
		r.Post("/parcels", controllers.ParcelCreate(d.Parcels, logg))
		r.Get("/trackings/{trackingId}", controllers.TrackingHistory(d.Tracking, d.Parcels, d.Payments, logg))
		r.Post("/payments/create-intent", controllers.PaymentCreateIntent(d.Payments, logg))
		r.Post("/riders", controllers.RiderRegister(d.Riders, logg))
		r.Get("/riders/available", controllers.RiderListAvailable(d.Riders, logg))
		r.Get("/users/role", controllers.UserRoleLookup(d.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Route("/parcels", func(r chi.Router) {
				r.Get("/", controllers.ParcelList(d.Parcels, logg))
				r.With(middleware.RequireOperation(policy.OpStatusCounts, logg)).
					Get("/delivery/status-count", controllers.ParcelStatusCounts(d.Parcels, logg))
				r.Get("/{id}", controllers.ParcelGet(d.Parcels, logg))
				r.Delete("/{id}", controllers.ParcelDelete(d.Parcels, logg))
				r.With(middleware.RequireOperation(policy.OpAssignRider, logg)).
					Patch("/{id}/assign-rider", controllers.ParcelAssignRider(d.Parcels, logg))
				r.With(middleware.RequireOperation(policy.OpAdvanceStatus, logg)).
					Patch("/{id}/status", controllers.ParcelAdvanceStatus(d.Parcels, logg))
				r.With(middleware.RequireOperation(policy.OpCashOut, logg)).
					Patch("/{id}/cashout", controllers.ParcelCashOut(d.Parcels, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", controllers.PaymentRecord(d.Parcels, logg))
				r.Get("/", controllers.PaymentHistory(d.Payments, logg))
			})

			r.Route("/riders", func(r chi.Router) {
				r.With(middleware.RequireOperation(policy.OpListRiders, logg)).
					Get("/status/{status}", controllers.RiderListByStatus(d.Riders, logg))
				r.With(middleware.RequireOperation(policy.OpDecideRider, logg)).
					Patch("/{id}/decision", controllers.RiderDecide(d.Riders, logg))
				r.With(middleware.RequireOperation(policy.OpRiderTaskList, logg)).
					Get("/me/tasks", controllers.RiderTaskList(d.Parcels, logg))
				r.With(middleware.RequireOperation(policy.OpRiderCompleted, logg)).
					Get("/me/completed", controllers.RiderCompletedList(d.Parcels, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequireOperation(policy.OpListUsers, logg)).
					Get("/", controllers.UserList(d.Users, logg))
				r.With(middleware.RequireOperation(policy.OpChangeUserRole, logg)).
					Patch("/role", controllers.UserChangeRole(d.Users, logg))
			})
		})
	})

	return r
}
