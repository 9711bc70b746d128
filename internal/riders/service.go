package riders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/pkg/db"
	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
	pkgerrors "github.com/parceldrop/parceldrop-backend/pkg/errors"
	"github.com/parceldrop/parceldrop-backend/pkg/logger"
)

// Service exposes the rider directory operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Rider, error)
	Decide(ctx context.Context, input DecideInput) (*models.Rider, error)
	ListByStatus(ctx context.Context, status enums.RiderStatus) ([]models.Rider, error)
	ListAvailable(ctx context.Context, district string) ([]models.Rider, error)
	SetWorkStatus(ctx context.Context, riderID uuid.UUID, work enums.WorkStatus) error
	Release(ctx context.Context, riderID uuid.UUID) error
}

type service struct {
	repo  Repository
	users roleUpdater
	logg  *logger.Logger
}

// NewService wires the rider directory service.
func NewService(repo Repository, users roleUpdater, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("riders: repository is required")
	}
	if users == nil {
		return nil, errors.New("riders: users role updater is required")
	}
	if logg == nil {
		return nil, errors.New("riders: logger is required")
	}
	return &service{repo: repo, users: users, logg: logg}, nil
}

// Register files a new rider application in the pending state.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Rider, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.District == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and district are required")
	}

	rider := &models.Rider{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		District:   input.District,
		Region:     input.Region,
		Status:     enums.RiderStatusPending,
		WorkStatus: enums.WorkStatusAvailable,
	}

	created, err := s.repo.Create(ctx, rider)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "rider with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rider")
	}
	return created, nil
}

// Decide resolves a pending application. Approval also elevates the matching
// user account to the rider role; that secondary update is best effort since
// the rider row is already durable when it runs.
func (s *service) Decide(ctx context.Context, input DecideInput) (*models.Rider, error) {
	if input.Decision != enums.RiderStatusActive && input.Decision != enums.RiderStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be active or rejected")
	}

	rider, err := s.repo.FindByID(ctx, input.RiderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rider")
	}
	if rider.Status != enums.RiderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "rider application already decided")
	}

	rows, err := s.repo.UpdateStatus(ctx, rider.ID, input.Decision)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rider status")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "rider application already decided")
	}
	rider.Status = input.Decision

	if input.Decision == enums.RiderStatusActive {
		ctx := s.logg.WithRiderID(ctx, rider.ID.String())
		if _, err := s.users.UpdateRole(ctx, rider.Email, enums.UserRoleRider); err != nil {
			s.logg.Error(ctx, "rider approved but user role elevation failed", err)
		}
	}

	return rider, nil
}

func (s *service) ListByStatus(ctx context.Context, status enums.RiderStatus) ([]models.Rider, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rider status")
	}
	out, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list riders")
	}
	return out, nil
}

func (s *service) ListAvailable(ctx context.Context, district string) ([]models.Rider, error) {
	out, err := s.repo.ListAvailable(ctx, district)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available riders")
	}
	return out, nil
}

func (s *service) SetWorkStatus(ctx context.Context, riderID uuid.UUID, work enums.WorkStatus) error {
	if !work.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid work status")
	}
	rows, err := s.repo.UpdateWorkStatus(ctx, riderID, work)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rider work status")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
	}
	return nil
}

// Release flips the rider back to available after their delivery reaches a
// terminal status.
func (s *service) Release(ctx context.Context, riderID uuid.UUID) error {
	return s.SetWorkStatus(ctx, riderID, enums.WorkStatusAvailable)
}
