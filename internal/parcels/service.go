package parcels

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/tracking"
	"github.com/parceldrop/parceldrop-backend/pkg/db"
	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
)

// Service is the parcel lifecycle engine. Every mutation funnels through the
// conditional updates in the repository so concurrent callers race at the
// store, not in process.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Parcel, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Parcel, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error)
	AssignRider(ctx context.Context, input AssignRiderInput) (*models.Parcel, error)
	AdvanceStatus(ctx context.Context, input AdvanceStatusInput) error
	CashOut(ctx context.Context, parcelID uuid.UUID) error
	RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Payment, error)
	List(ctx context.Context, filters Filters) ([]models.Parcel, error)
	RiderPending(ctx context.Context, riderEmail string) ([]models.Parcel, error)
	RiderCompleted(ctx context.Context, riderEmail string) ([]models.Parcel, error)
	StatusCounts(ctx context.Context) ([]StatusCount, error)
	Delete(ctx context.Context, id uuid.UUID, actorEmail string, actorRole enums.UserRole) error
}

type service struct {
	repo       Repository
	riders     riderDirectory
	trail      trackingAppender
	logg       *logger.Logger
	now        func() time.Time
	trackingID func() string
}

// NewService wires the lifecycle engine.
func NewService(repo Repository, riders riderDirectory, trail trackingAppender, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("parcels: repository is required")
	}
	if riders == nil {
		return nil, errors.New("parcels: rider directory is required")
	}
	if trail == nil {
		return nil, errors.New("parcels: tracking appender is required")
	}
	if logg == nil {
		return nil, errors.New("parcels: logger is required")
	}
	return &service{
		repo:       repo,
		riders:     riders,
		trail:      trail,
		logg:       logg,
		now:        time.Now,
		trackingID: newTrackingID,
	}, nil
}

// newTrackingID builds the public parcel handle, e.g. PD-20260831-4F21A0C3.
func newTrackingID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read on supported platforms never fails; fall back anyway.
		return fmt.Sprintf("PD-%s-%d", time.Now().UTC().Format("20060102"), time.Now().UnixNano())
	}
	return fmt.Sprintf("PD-%s-%s", time.Now().UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}

// Create books a new parcel. Fresh parcels always start unpaid, pending and
// not cashed out no matter what the caller sends.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Parcel, error) {
	input.CreatedBy = strings.ToLower(strings.TrimSpace(input.CreatedBy))
	if input.CreatedBy == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "created_by email is required")
	}
	if input.Title == "" || input.SenderName == "" || input.ReceiverName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title, sender name and receiver name are required")
	}
	if !input.WeightKG.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}
	if input.CostCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
	}

	parcel := &models.Parcel{
		TrackingID:       s.trackingID(),
		CreatedBy:        input.CreatedBy,
		Title:            input.Title,
		SenderName:       input.SenderName,
		SenderContact:    input.SenderContact,
		ReceiverName:     input.ReceiverName,
		ReceiverContact:  input.ReceiverContact,
		SenderDistrict:   input.SenderDistrict,
		ReceiverDistrict: input.ReceiverDistrict,
		WeightKG:         input.WeightKG,
		CostCents:        input.CostCents,
		PaymentStatus:    enums.PaymentStatusUnpaid,
		DeliveryStatus:   enums.DeliveryStatusPending,
		CashoutStatus:    enums.CashoutStatusNotCashedOut,
	}

	created, err := s.repo.Create(ctx, parcel)
	if err != nil && db.IsUniqueViolation(err, "") {
		// Tracking id collision; one regenerate covers it.
		parcel.TrackingID = s.trackingID()
		created, err = s.repo.Create(ctx, parcel)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create parcel")
	}

	s.appendTrail(ctx, created, "parcel_created", "parcel booked", input.CreatedBy)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
	parcel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
	}
	return parcel, nil
}

func (s *service) GetByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error) {
	parcel, err := s.repo.FindByTrackingID(ctx, strings.TrimSpace(trackingID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
	}
	return parcel, nil
}

// AssignRider hands a pending parcel to an active rider. Two ordered effects:
// the parcel row first, the rider's work status second. If the second write
// fails the first is already durable, so the error carries both ids and the
// failed step instead of pretending either outcome.
func (s *service) AssignRider(ctx context.Context, input AssignRiderInput) (*models.Parcel, error) {
	rider, err := s.riders.FindByID(ctx, input.RiderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rider")
	}
	if rider.Status != enums.RiderStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rider is not active")
	}

	rows, err := s.repo.AssignRider(ctx, input.ParcelID, rider)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign rider")
	}
	if rows == 0 {
		if _, err := s.repo.FindByID(ctx, input.ParcelID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "parcel is no longer pending")
	}

	ctx = s.logg.WithParcelID(s.logg.WithRiderID(ctx, rider.ID.String()), input.ParcelID.String())

	if _, werr := s.riders.UpdateWorkStatus(ctx, rider.ID, enums.WorkStatusInDelivery); werr != nil {
		s.logg.Error(ctx, "parcel assigned but rider work status update failed", werr)
		return nil, pkgerrors.Wrap(pkgerrors.CodePartialFailure, werr, "parcel assigned but rider not marked busy").
			WithDetails(map[string]any{
				"parcel_id":   input.ParcelID,
				"rider_id":    rider.ID,
				"failed_step": "rider_work_status",
			})
	}

	parcel, err := s.Get(ctx, input.ParcelID)
	if err != nil {
		return nil, err
	}

	s.appendTrail(ctx, parcel, string(enums.DeliveryStatusRiderAssigned),
		fmt.Sprintf("rider %s assigned", rider.Name), input.ActorEmail)
	return parcel, nil
}

// AdvanceStatus moves a parcel exactly one step forward. The update is keyed
// on the status the caller observed, so of two racing calls exactly one wins
// and the loser gets a state conflict naming where the parcel actually is.
func (s *service) AdvanceStatus(ctx context.Context, input AdvanceStatusInput) error {
	if !input.Next.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery status")
	}

	parcel, err := s.Get(ctx, input.ParcelID)
	if err != nil {
		return err
	}
	if !parcel.DeliveryStatus.CanTransitionTo(input.Next) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move parcel from %s to %s", parcel.DeliveryStatus, input.Next))
	}

	now := s.now().UTC()
	stamps := map[string]any{}
	switch input.Next {
	case enums.DeliveryStatusInTransit:
		stamps["picked_at"] = now
	case enums.DeliveryStatusDelivered:
		// Service-center handoffs end the attempt without a handover to the
		// receiver, so only a real delivery earns the stamp.
		stamps["delivered_at"] = now
	}

	rows, err := s.repo.UpdateDeliveryStatus(ctx, parcel.ID, parcel.DeliveryStatus, input.Next, stamps)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery status")
	}
	if rows == 0 {
		current, rerr := s.repo.FindByID(ctx, parcel.ID)
		if rerr != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "parcel status changed concurrently")
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("parcel moved to %s concurrently", current.DeliveryStatus))
	}

	if input.Next.IsTerminal() && parcel.AssignedRiderID != nil {
		ctx := s.logg.WithRiderID(ctx, parcel.AssignedRiderID.String())
		if _, werr := s.riders.UpdateWorkStatus(ctx, *parcel.AssignedRiderID, enums.WorkStatusAvailable); werr != nil {
			// The reconciliation sweep picks this up; delivery itself succeeded.
			s.logg.Error(ctx, "delivery completed but rider release failed", werr)
		}
	}

	s.appendTrail(ctx, parcel, string(input.Next),
		fmt.Sprintf("status changed from %s to %s", parcel.DeliveryStatus, input.Next), input.ActorEmail)
	return nil
}

// CashOut settles the collected cash for a completed delivery, exactly once.
func (s *service) CashOut(ctx context.Context, parcelID uuid.UUID) error {
	parcel, err := s.Get(ctx, parcelID)
	if err != nil {
		return err
	}
	if !parcel.DeliveryStatus.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "parcel delivery is not complete")
	}
	if parcel.CashoutStatus == enums.CashoutStatusCashedOut {
		return pkgerrors.New(pkgerrors.CodeConflict, "parcel already cashed out")
	}

	rows, err := s.repo.MarkCashedOut(ctx, parcelID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cash out parcel")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "parcel already cashed out")
	}
	return nil
}

// RecordPayment flips the parcel to paid and writes the ledger row. The flip
// goes first: when it matches zero rows the parcel was already paid or never
// existed, and nothing is written. A ledger row therefore always means this
// call performed the flip.
func (s *service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Payment, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payer email is required")
	}
	if input.TransactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.Currency == "" {
		input.Currency = "usd"
	}

	rows, err := s.repo.MarkPaid(ctx, input.ParcelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark parcel paid")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "parcel already paid or not found")
	}

	payment := &models.Payment{
		ParcelID:      input.ParcelID,
		Email:         input.Email,
		Amount:        input.Amount,
		Currency:      strings.ToLower(input.Currency),
		Method:        input.Method,
		TransactionID: input.TransactionID,
		PaidAt:        s.now().UTC(),
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		ctx := s.logg.WithParcelID(ctx, input.ParcelID.String())
		s.logg.Error(ctx, "parcel flipped to paid but ledger insert failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodePartialFailure, err, "parcel marked paid but payment record failed").
			WithDetails(map[string]any{
				"parcel_id":   input.ParcelID,
				"failed_step": "payment_insert",
			})
	}

	if parcel, gerr := s.repo.FindByID(ctx, input.ParcelID); gerr == nil {
		s.appendTrail(ctx, parcel, "payment_received",
			fmt.Sprintf("payment of %s %s received", input.Amount.StringFixed(2), payment.Currency), input.Email)
	}
	return payment, nil
}

func (s *service) List(ctx context.Context, filters Filters) ([]models.Parcel, error) {
	out, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parcels")
	}
	return out, nil
}

// RiderPending lists the rider's open work, newest first.
func (s *service) RiderPending(ctx context.Context, riderEmail string) ([]models.Parcel, error) {
	return s.List(ctx, Filters{RiderEmail: riderEmail, Statuses: PendingWorkStatuses})
}

// RiderCompleted lists the rider's finished deliveries, newest first.
func (s *service) RiderCompleted(ctx context.Context, riderEmail string) ([]models.Parcel, error) {
	return s.List(ctx, Filters{RiderEmail: riderEmail, Statuses: CompletedStatuses})
}

func (s *service) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	out, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count parcels by status")
	}
	return out, nil
}

// Delete removes a booking that has not entered the pipeline. Only the owner
// or an admin may do it, and only while the parcel is still pending.
func (s *service) Delete(ctx context.Context, id uuid.UUID, actorEmail string, actorRole enums.UserRole) error {
	parcel, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if actorRole != enums.UserRoleAdmin && !strings.EqualFold(parcel.CreatedBy, actorEmail) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner or an admin can delete a parcel")
	}
	if parcel.DeliveryStatus != enums.DeliveryStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending parcels can be deleted")
	}
	if parcel.PaymentStatus == enums.PaymentStatusPaid {
		return pkgerrors.New(pkgerrors.CodeConflict, "paid parcels cannot be deleted")
	}

	rows, err := s.repo.DeletePending(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete parcel")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "parcel entered the pipeline concurrently")
	}
	return nil
}

func (s *service) appendTrail(ctx context.Context, parcel *models.Parcel, status, message, actor string) {
	err := s.trail.Append(ctx, tracking.AppendInput{
		TrackingID: parcel.TrackingID,
		ParcelID:   parcel.ID,
		Status:     status,
		Message:    message,
		UpdatedBy:  actor,
		Time:       s.now().UTC(),
	})
	if err != nil {
		ctx := s.logg.WithParcelID(ctx, parcel.ID.String())
		s.logg.Warn(ctx, "tracking event append failed: "+err.Error())
	}
}
