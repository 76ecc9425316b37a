package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/config"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
)

type fakeAuthUsers struct {
	byUsername map[string]*models.User
	byID       map[string]*models.User
	lastLogin  map[string]time.Time
	passwords  map[string]string
}

func newFakeAuthUsers(users ...*models.User) *fakeAuthUsers {
	f := &fakeAuthUsers{
		byUsername: map[string]*models.User{},
		byID:       map[string]*models.User{},
		lastLogin:  map[string]time.Time{},
		passwords:  map[string]string{},
	}
	for _, u := range users {
		f.byUsername[u.Username] = u
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeAuthUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return u, nil
}

func (f *fakeAuthUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return u, nil
}

func (f *fakeAuthUsers) Create(_ context.Context, user *models.User) error {
	user.ID = "user-new"
	f.byUsername[user.Username] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeAuthUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	f.passwords[id] = passwordHash
	return nil
}

func (f *fakeAuthUsers) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func authFixture(t *testing.T) (*AuthService, *fakeAuthUsers, *fakeAudit) {
	t.Helper()
	users := newFakeAuthUsers(&models.User{
		ID:                "user-1",
		Username:          "arobayo",
		PasswordHash:      hashPassword(t, "secreto123"),
		FullName:          "Adriana Robayo",
		Role:              models.RoleAdmin,
		AdministratorName: "Adriana Robayo",
		Active:            true,
	})
	audit := &fakeAudit{}
	svc := NewAuthService(users, audit, config.JWTConfig{Secret: "test-secret", Expiration: time.Hour}, zap.NewNop())
	return svc, users, audit
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, users, audit := authFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "arobayo", Password: "secreto123"}, ClientMeta{ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "arobayo", resp.User.Username)

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "Adriana Robayo", claims.AdministratorName)

	assert.Contains(t, users.lastLogin, "user-1")
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, audit := authFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "arobayo", Password: "incorrecta"}, ClientMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Empty(t, audit.entries)
}

func TestLoginRejectsUnknownUserWithSameError(t *testing.T) {
	svc, _, _ := authFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "x"}, ClientMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, users, _ := authFixture(t)
	users.byUsername["arobayo"].Active = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "arobayo", Password: "secreto123"}, ClientMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	svc, _, _ := authFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "arobayo", Password: "secreto123"}, ClientMeta{})
	require.NoError(t, err)

	_, err = svc.ParseToken(resp.Token + "x")
	require.Error(t, err)

	other := NewAuthService(newFakeAuthUsers(), nil, config.JWTConfig{Secret: "otro-secreto"}, zap.NewNop())
	_, err = other.ParseToken(resp.Token)
	require.Error(t, err)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, users, audit := authFixture(t)

	err := svc.ChangePassword(context.Background(), "user-1", dto.ChangePasswordRequest{
		CurrentPassword: "equivocada",
		NewPassword:     "nueva12345",
	}, ClientMeta{})
	require.Error(t, err)
	assert.Empty(t, users.passwords)

	err = svc.ChangePassword(context.Background(), "user-1", dto.ChangePasswordRequest{
		CurrentPassword: "secreto123",
		NewPassword:     "nueva12345",
	}, ClientMeta{})
	require.NoError(t, err)

	stored := users.passwords["user-1"]
	require.NotEmpty(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("nueva12345")))
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionPasswordChange, audit.entries[0].Action)
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users, _ := authFixture(t)

	info, err := svc.Register(context.Background(), dto.RegisterUserRequest{
		Username:          "izuluaga",
		Email:             "izuluaga@example.com",
		Password:          "clave12345",
		FullName:          "Ivan Zuluaga",
		Role:              string(models.RoleSupervisor),
		AdministratorName: "Ivan Zuluaga",
	})
	require.NoError(t, err)
	assert.Equal(t, "izuluaga", info.Username)

	created := users.byUsername["izuluaga"]
	require.NotNil(t, created)
	assert.NotEqual(t, "clave12345", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("clave12345")))
}
