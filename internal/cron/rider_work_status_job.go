package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
)

const (
	defaultReconcileBatch  = 100
	defaultReconcileMinAge = 10 * time.Minute
)

type stuckRiderReader interface {
	ListStuckInDelivery(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Rider, error)
}

type riderReleaser interface {
	UpdateWorkStatus(ctx context.Context, id uuid.UUID, work enums.WorkStatus) (int64, error)
}

// RiderWorkStatusJobParams configure the rider availability sweep.
type RiderWorkStatusJobParams struct {
	Logger   *logger.Logger
	Riders   stuckRiderReader
	Releaser riderReleaser
	Batch    int
	MinAge   time.Duration
}

// NewRiderWorkStatusJob builds the job that returns riders to the available
// pool when they are marked busy but have no open parcel. It is the repair
// path for assignment partial failures and missed terminal releases.
func NewRiderWorkStatusJob(params RiderWorkStatusJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Riders == nil {
		return nil, fmt.Errorf("rider reader required")
	}
	if params.Releaser == nil {
		return nil, fmt.Errorf("rider releaser required")
	}
	if params.Batch <= 0 {
		params.Batch = defaultReconcileBatch
	}
	if params.MinAge <= 0 {
		params.MinAge = defaultReconcileMinAge
	}
	return &riderWorkStatusJob{
		logg:     params.Logger,
		riders:   params.Riders,
		releaser: params.Releaser,
		batch:    params.Batch,
		minAge:   params.MinAge,
		now:      time.Now,
	}, nil
}

type riderWorkStatusJob struct {
	logg     *logger.Logger
	riders   stuckRiderReader
	releaser riderReleaser
	batch    int
	minAge   time.Duration
	now      func() time.Time
}

func (j *riderWorkStatusJob) Name() string { return "rider-work-status-reconcile" }

func (j *riderWorkStatusJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.minAge)
	stuck, err := j.riders.ListStuckInDelivery(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("list stuck riders: %w", err)
	}
	if len(stuck) == 0 {
		return nil
	}

	var released, failed int
	for _, rider := range stuck {
		riderCtx := j.logg.WithRiderID(ctx, rider.ID.String())
		rows, err := j.releaser.UpdateWorkStatus(riderCtx, rider.ID, enums.WorkStatusAvailable)
		if err != nil {
			failed++
			j.logg.Error(riderCtx, "failed to release stuck rider", err)
			continue
		}
		if rows > 0 {
			released++
			j.logg.Info(riderCtx, "released rider with no open parcels")
		}
	}

	ctx = j.logg.WithFields(ctx, map[string]any{
		"stuck":    len(stuck),
		"released": released,
		"failed":   failed,
	})
	j.logg.Info(ctx, "rider work status sweep complete")
	if failed > 0 {
		return fmt.Errorf("failed to release %d of %d stuck riders", failed, len(stuck))
	}
	return nil
}
