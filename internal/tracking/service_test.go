package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
)

type stubTrackingRepo struct {
	appended  []models.TrackingEvent
	events    []models.TrackingEvent
	appendErr error
	listErr   error
}

func (s *stubTrackingRepo) Append(_ context.Context, event *models.TrackingEvent) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, *event)
	return nil
}

func (s *stubTrackingRepo) ListByTrackingID(_ context.Context, trackingID string) ([]models.TrackingEvent, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.TrackingEvent
	for _, e := range s.events {
		if e.TrackingID == trackingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestAppendDefaultsTime(t *testing.T) {
	repo := &stubTrackingRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	err = svc.Append(context.Background(), AppendInput{
		TrackingID: "TRK-1",
		ParcelID:   uuid.New(),
		Status:     "in_transit",
		UpdatedBy:  "rider@example.com",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(repo.appended) != 1 {
		t.Fatalf("expected 1 appended event")
	}
	if repo.appended[0].Time.IsZero() {
		t.Fatalf("expected time to default to append time")
	}
}

func TestAppendValidatesRequiredFields(t *testing.T) {
	svc, _ := NewService(&stubTrackingRepo{})

	cases := []AppendInput{
		{ParcelID: uuid.New(), Status: "x"},
		{TrackingID: "TRK-1", Status: "x"},
		{TrackingID: "TRK-1", ParcelID: uuid.New()},
	}
	for i, input := range cases {
		err := svc.Append(context.Background(), input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestHistoryNewestFirstPassthrough(t *testing.T) {
	parcelID := uuid.New()
	now := time.Now()
	repo := &stubTrackingRepo{
		events: []models.TrackingEvent{
			{TrackingID: "TRK-1", ParcelID: parcelID, Status: "delivered", Time: now},
			{TrackingID: "TRK-1", ParcelID: parcelID, Status: "in_transit", Time: now.Add(-time.Hour)},
			{TrackingID: "TRK-2", ParcelID: uuid.New(), Status: "pending", Time: now},
		},
	}
	svc, _ := NewService(repo)

	events, err := svc.History(context.Background(), "TRK-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}

func TestHistoryUnknownIDIsNotFound(t *testing.T) {
	svc, _ := NewService(&stubTrackingRepo{})
	_, err := svc.History(context.Background(), "TRK-missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryStoreFailureIsDependency(t *testing.T) {
	svc, _ := NewService(&stubTrackingRepo{listErr: errors.New("conn reset")})
	_, err := svc.History(context.Background(), "TRK-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
