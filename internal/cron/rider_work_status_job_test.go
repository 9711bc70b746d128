package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
)

type stubStuckReader struct {
	riders     []models.Rider
	err        error
	lastCutoff time.Time
	lastLimit  int
}

func (s *stubStuckReader) ListStuckInDelivery(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Rider, error) {
	s.lastCutoff = updatedBefore
	s.lastLimit = limit
	return s.riders, s.err
}

type stubReleaser struct {
	released []uuid.UUID
	failFor  map[uuid.UUID]error
}

func (s *stubReleaser) UpdateWorkStatus(ctx context.Context, id uuid.UUID, work enums.WorkStatus) (int64, error) {
	if err := s.failFor[id]; err != nil {
		return 0, err
	}
	s.released = append(s.released, id)
	return 1, nil
}

func newWorkStatusJob(t *testing.T, reader stuckRiderReader, releaser riderReleaser) Job {
	t.Helper()
	job, err := NewRiderWorkStatusJob(RiderWorkStatusJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Riders:   reader,
		Releaser: releaser,
		Batch:    50,
		MinAge:   10 * time.Minute,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	return job
}

func TestRiderWorkStatusJobReleasesStuckRiders(t *testing.T) {
	riderA := models.Rider{ID: uuid.New(), WorkStatus: enums.WorkStatusInDelivery}
	riderB := models.Rider{ID: uuid.New(), WorkStatus: enums.WorkStatusInDelivery}
	reader := &stubStuckReader{riders: []models.Rider{riderA, riderB}}
	releaser := &stubReleaser{}

	job := newWorkStatusJob(t, reader, releaser)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(releaser.released) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(releaser.released))
	}
	if reader.lastLimit != 50 {
		t.Fatalf("expected batch limit passed through, got %d", reader.lastLimit)
	}
	if time.Since(reader.lastCutoff) < 10*time.Minute {
		t.Fatalf("cutoff must be at least min age in the past, got %s", reader.lastCutoff)
	}
}

func TestRiderWorkStatusJobNoStuckRiders(t *testing.T) {
	releaser := &stubReleaser{}
	job := newWorkStatusJob(t, &stubStuckReader{}, releaser)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(releaser.released) != 0 {
		t.Fatalf("expected no releases, got %d", len(releaser.released))
	}
}

func TestRiderWorkStatusJobContinuesPastFailures(t *testing.T) {
	riderA := models.Rider{ID: uuid.New()}
	riderB := models.Rider{ID: uuid.New()}
	reader := &stubStuckReader{riders: []models.Rider{riderA, riderB}}
	releaser := &stubReleaser{failFor: map[uuid.UUID]error{riderA.ID: errors.New("deadlock")}}

	job := newWorkStatusJob(t, reader, releaser)
	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error when a release fails")
	}
	if len(releaser.released) != 1 || releaser.released[0] != riderB.ID {
		t.Fatalf("expected the second rider still released, got %v", releaser.released)
	}
}

func TestRiderWorkStatusJobReaderFailure(t *testing.T) {
	job := newWorkStatusJob(t, &stubStuckReader{err: errors.New("timeout")}, &stubReleaser{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected reader failure to surface")
	}
}
