package users

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/pkg/db/models"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

// Repository exposes user-directory persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account. Every account starts as a plain user; roles
// only move through UpdateRole.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		DisplayName:  dto.DisplayName,
		PasswordHash: dto.PasswordHash,
		Role:         enums.UserRoleUser,
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return r.FindByEmail(ctx, user.Email)
}

// TouchLogin stamps last_login_at for the given email.
func (r *Repository) TouchLogin(ctx context.Context, email string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", strings.ToLower(email)).
		UpdateColumn("last_login_at", at).Error
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns the full directory, newest first.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRole sets the role for the user with the given email. Returns the
// number of rows touched so callers can distinguish a missing user.
func (r *Repository) UpdateRole(ctx context.Context, email string, role enums.UserRole) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", strings.ToLower(email)).
		UpdateColumn("role", role)
	return res.RowsAffected, res.Error
}

// RoleByEmail looks up just the role column for the given email.
func (r *Repository) RoleByEmail(ctx context.Context, email string) (enums.UserRole, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Select("role").
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
