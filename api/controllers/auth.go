package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/api/responses"
	"github.com/parceldrop/parceldrop-backend/api/validators"
	"github.com/parceldrop/parceldrop-backend/internal/users"
	pkgAuth "github.com/parceldrop/parceldrop-backend/pkg/auth"
	"github.com/parceldrop/parceldrop-backend/pkg/auth/session"
	"github.com/parceldrop/parceldrop-backend/pkg/config"
	"github.com/parceldrop/parceldrop-backend/pkg/db"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
	"github.com/parceldrop/parceldrop-backend/pkg/security"
)

const invalidCredentialsMsg = "invalid credentials"

// sessionRegistrar is the slice of the session manager the auth handlers need.
type sessionRegistrar interface {
	Register(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}

// AuthRegister creates an account with an Argon2id password hash. New accounts
// always start with the user role; elevation happens through the admin routes.
func AuthRegister(repo *users.Repository, pwCfg config.PasswordConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hash, err := security.HashPassword(payload.Password, pwCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password"))
			return
		}

		user, err := repo.Create(r.Context(), users.CreateUserDTO{
			Email:        payload.Email,
			DisplayName:  validators.SanitizeString(payload.DisplayName, 120),
			PasswordHash: hash,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "email already registered"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, users.FromModel(user))
	}
}

// AuthLogin verifies the password against the stored hash, registers a live
// session and mints the access token the guard expects on protected routes.
func AuthLogin(repo *users.Repository, sessions sessionRegistrar, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := repo.FindByEmail(r.Context(), payload.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMsg))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user"))
			return
		}

		ok, err := security.VerifyPassword(payload.Password, user.PasswordHash)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password"))
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMsg))
			return
		}

		if err := repo.TouchLogin(r.Context(), user.Email, time.Now().UTC()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login"))
			return
		}

		accessID := session.NewAccessID()
		if err := sessions.Register(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session"))
			return
		}

		token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
			JTI:    accessID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{
			AccessToken: token,
			User:        users.FromModel(user),
		})
	}
}

// AuthLogout revokes the live session behind the presented token.
func AuthLogout(sessions sessionRegistrar, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		claims, err := pkgAuth.ParseAccessToken(cfg, stripBearer(raw))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}
		if claims.ID != "" {
			if err := sessions.Revoke(r.Context(), claims.ID); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func stripBearer(raw string) string {
	const prefix = "bearer "
	if len(raw) > len(prefix) && (raw[:7] == "Bearer " || raw[:7] == "bearer ") {
		return raw[7:]
	}
	return raw
}
