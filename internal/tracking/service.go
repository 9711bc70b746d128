package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
)

// AppendInput carries the fields for a new tracking event.
type AppendInput struct {
	TrackingID string
	ParcelID   uuid.UUID
	Status     string
	Message    string
	UpdatedBy  string
	Time       time.Time
}

// Service exposes the tracking log: appends are pure inserts, lookups return
// history newest first.
type Service interface {
	Append(ctx context.Context, input AppendInput) error
	History(ctx context.Context, trackingID string) ([]models.TrackingEvent, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the tracking log service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Append(ctx context.Context, input AppendInput) error {
	if strings.TrimSpace(input.TrackingID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "tracking id required")
	}
	if input.ParcelID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "parcel id required")
	}
	if strings.TrimSpace(input.Status) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "status required")
	}

	at := input.Time
	if at.IsZero() {
		at = s.now().UTC()
	}

	event := &models.TrackingEvent{
		TrackingID: input.TrackingID,
		ParcelID:   input.ParcelID,
		Status:     input.Status,
		Message:    input.Message,
		UpdatedBy:  input.UpdatedBy,
		Time:       at,
	}
	if err := s.repo.Append(ctx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking event")
	}
	return nil
}

func (s *service) History(ctx context.Context, trackingID string) ([]models.TrackingEvent, error) {
	if strings.TrimSpace(trackingID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking id required")
	}
	events, err := s.repo.ListByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracking history")
	}
	if len(events) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no tracking history for id")
	}
	return events, nil
}
