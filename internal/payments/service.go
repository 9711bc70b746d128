package payments

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
	"github.com/parceldrop/parceldrop-backend/pkg/stripe"
)

// Service exposes payment history reads and gateway intent creation.
type Service interface {
	History(ctx context.Context, email string) ([]models.Payment, error)
	ForParcel(ctx context.Context, parcelID uuid.UUID) (*models.Payment, error)
	CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentDTO, error)
}

// CreateIntentInput carries the amount to pre-authorize with the gateway.
type CreateIntentInput struct {
	AmountCents int64
	Currency    string
}

// IntentDTO is the gateway handle the browser-side confirmation flow needs.
type IntentDTO struct {
	ClientSecret string `json:"client_secret"`
}

type service struct {
	repo            Repository
	gateway         stripe.IntentCreator
	defaultCurrency string
}

// NewService wires the payments service.
func NewService(repo Repository, gateway stripe.IntentCreator, defaultCurrency string) (Service, error) {
	if repo == nil {
		return nil, errors.New("payments: repository is required")
	}
	if gateway == nil {
		return nil, errors.New("payments: gateway is required")
	}
	if defaultCurrency == "" {
		defaultCurrency = "usd"
	}
	return &service{repo: repo, gateway: gateway, defaultCurrency: defaultCurrency}, nil
}

// History returns the caller's payment records, most recent first. Callers are
// scoped to their own email by the policy layer before this runs.
func (s *service) History(ctx context.Context, email string) ([]models.Payment, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	out, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return out, nil
}

// ForParcel returns the ledger row behind a parcel. A nil payment with a nil
// error means the parcel has not been paid yet; the ledger never holds more
// than one row per parcel.
func (s *service) ForParcel(ctx context.Context, parcelID uuid.UUID) (*models.Payment, error) {
	payment, err := s.repo.FindByParcelID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	return payment, nil
}

// CreateIntent asks the gateway for a payment intent and hands back the client
// secret. Gateway failures surface with the processor's message intact so the
// frontend can show it.
func (s *service) CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentDTO, error) {
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	currency := strings.ToLower(input.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}

	secret, err := s.gateway.CreateIntent(ctx, input.AmountCents, currency)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, err.Error())
	}
	return &IntentDTO{ClientSecret: secret}, nil
}
