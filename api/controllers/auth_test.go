package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/users"
	pkgAuth "github.com/parceldrop/parceldrop-backend/pkg/auth"
	"github.com/parceldrop/parceldrop-backend/pkg/config"
	"github.com/parceldrop/parceldrop-backend/pkg/enums"
	"github.com/parceldrop/parceldrop-backend/pkg/security"
	"github.com/parceldrop/parceldrop-backend/pkg/types"
)

type stubRegistrar struct {
	registered []string
	revoked    []string
}

func (s *stubRegistrar) Register(_ context.Context, accessID string) error {
	s.registered = append(s.registered, accessID)
	return nil
}

func (s *stubRegistrar) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func authTestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "auth-test-secret",
		Issuer:            "parceldrop-test",
		ExpirationMinutes: 15,
	}
}

func authTestPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func setupAuthTestRepo(t *testing.T) *users.Repository {
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
	return users.NewRepository(db)
}

func seedAccount(t *testing.T, repo *users.Repository, email, password string, role enums.UserRole) {
	t.Helper()
	ctx := context.Background()

	hash, err := security.HashPassword(password, authTestPasswordConfig())
	require.NoError(t, err)

	_, err = repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		DisplayName:  "Seeded",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	if role != enums.UserRoleUser {
		rows, err := repo.UpdateRole(ctx, email, role)
		require.NoError(t, err)
		require.EqualValues(t, 1, rows)
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestAuthLoginWrongPasswordNeverMintsToken(t *testing.T) {
	repo := setupAuthTestRepo(t)
	seedAccount(t, repo, "admin@example.com", "real-password-99", enums.UserRoleAdmin)
	registrar := &stubRegistrar{}

	handler := AuthLogin(repo, registrar, authTestJWTConfig(), nil)

	// Knowing an admin's email must not be enough to obtain an admin token.
	w := postJSON(t, handler, `{"email":"admin@example.com","password":"guessed-password"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "invalid credentials", body.Error.Message)
	assert.Empty(t, registrar.registered, "no session may exist for a failed login")
}

func TestAuthLoginUnknownEmailSameMessage(t *testing.T) {
	repo := setupAuthTestRepo(t)
	registrar := &stubRegistrar{}

	handler := AuthLogin(repo, registrar, authTestJWTConfig(), nil)
	w := postJSON(t, handler, `{"email":"nobody@example.com","password":"whatever-123"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "invalid credentials", body.Error.Message,
		"unknown accounts and bad passwords must be indistinguishable")
}

func TestAuthLoginMintsStoredRole(t *testing.T) {
	repo := setupAuthTestRepo(t)
	seedAccount(t, repo, "ops@example.com", "real-password-99", enums.UserRoleAdmin)
	registrar := &stubRegistrar{}
	jwtCfg := authTestJWTConfig()

	handler := AuthLogin(repo, registrar, jwtCfg, nil)
	w := postJSON(t, handler, `{"email":"Ops@Example.com","password":"real-password-99"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data loginResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)

	claims, err := pkgAuth.ParseAccessToken(jwtCfg, envelope.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, enums.UserRoleAdmin, claims.Role)
	require.Len(t, registrar.registered, 1)
	assert.Equal(t, registrar.registered[0], claims.ID, "token jti must match the registered session")

	stored, err := repo.FindByEmail(context.Background(), "ops@example.com")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestAuthRegisterThenLogin(t *testing.T) {
	repo := setupAuthTestRepo(t)
	registrar := &stubRegistrar{}
	jwtCfg := authTestJWTConfig()

	register := AuthRegister(repo, authTestPasswordConfig(), nil)
	w := postJSON(t, register, `{"email":"new@example.com","display_name":"New User","password":"long-enough-pw"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data users.UserDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, enums.UserRoleUser, created.Data.Role)

	// The raw password never lands in the row.
	stored, err := repo.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))

	login := AuthLogin(repo, registrar, jwtCfg, nil)
	w = postJSON(t, login, `{"email":"new@example.com","password":"long-enough-pw"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	registrar := &stubRegistrar{}
	jwtCfg := authTestJWTConfig()

	token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "ops@example.com",
		Role:   enums.UserRoleUser,
		JTI:    "session-123",
	})
	require.NoError(t, err)

	handler := AuthLogout(registrar, jwtCfg, nil)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"session-123"}, registrar.revoked)
}

func TestAuthRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := setupAuthTestRepo(t)
	seedAccount(t, repo, "taken@example.com", "real-password-99", enums.UserRoleUser)

	register := AuthRegister(repo, authTestPasswordConfig(), nil)
	w := postJSON(t, register, `{"email":"taken@example.com","password":"another-pw-123"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	repo := setupAuthTestRepo(t)

	register := AuthRegister(repo, authTestPasswordConfig(), nil)
	w := postJSON(t, register, `{"email":"short@example.com","password":"tiny"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
