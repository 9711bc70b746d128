package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  email TEXT NOT NULL UNIQUE,
  display_name TEXT,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`

	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM users").Error)
	return db
}

func seedUser(t *testing.T, repo *Repository, email string) {
	t.Helper()
	_, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "$argon2id$v=19$m=32768,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
	})
	require.NoError(t, err)
}

func TestCreateLowercasesAndDefaultsRole(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{
		Email:        "Sana@Example.com",
		DisplayName:  "Sana",
		PasswordHash: "$argon2id$hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "sana@example.com", user.Email)
	assert.Equal(t, enums.UserRoleUser, user.Role)
	assert.Nil(t, user.LastLoginAt)

	_, err = repo.Create(ctx, CreateUserDTO{Email: "sana@example.com", PasswordHash: "$argon2id$other"})
	assert.Error(t, err, "duplicate email must be rejected")
}

func TestTouchLoginNeverTouchesRole(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedUser(t, repo, "asha@example.com")

	rows, err := repo.UpdateRole(ctx, "asha@example.com", enums.UserRoleRider)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	// A later login must not demote the elevated rider.
	require.NoError(t, repo.TouchLogin(ctx, "Asha@Example.com", time.Now().UTC()))

	got, err := repo.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleRider, got.Role)
	assert.NotNil(t, got.LastLoginAt)
}

func TestUpdateRoleMissingUser(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.UpdateRole(context.Background(), "ghost@example.com", enums.UserRoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestRoleByEmailLowercasesLookup(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedUser(t, repo, "rafi@example.com")

	role, err := repo.RoleByEmail(ctx, "RAFI@example.com")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleUser, role)

	_, err = repo.RoleByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListNewestFirst(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedUser(t, repo, "older@example.com")
	require.NoError(t, db.Exec(
		"UPDATE users SET created_at = ? WHERE email = ?",
		time.Now().Add(-2*time.Hour), "older@example.com",
	).Error)

	seedUser(t, repo, "newer@example.com")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "newer@example.com", all[0].Email)
	assert.Equal(t, "older@example.com", all[1].Email)
}
