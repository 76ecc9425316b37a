package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/crypto"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
)

func protectedUserRow(t *testing.T, gate *crypto.FieldGate, id, username, email, fullName, adminName string) []driverValue {
	t.Helper()
	enc := func(field, value string) string {
		out, err := gate.ProtectValue(crypto.TableUsers, field, value)
		require.NoError(t, err)
		return out
	}
	return []driverValue{
		id, username, enc("email", email), "$2a$10$hash", enc("full_name", fullName),
		"operator", enc("administrator_name", adminName), "VPI CUSIANA",
		true, true, nil, time.Now(), time.Now(),
	}
}

type driverValue = driver.Value

func userColumnsList() []string {
	return []string{"id", "username", "email", "password_hash", "full_name", "role", "administrator_name", "client_operation", "is_active", "is_verified", "last_login", "created_at", "updated_at"}
}

func TestUserRepositoryGetByUsernameRevealsFields(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	gate := newRepoGate(t)
	repo := NewUserRepository(db, gate)

	rows := sqlmock.NewRows(userColumnsList()).
		AddRow(protectedUserRow(t, gate, "user-1", "arobayo", "arobayo@example.com", "Adriana Robayo", "Adriana Robayo")...)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("arobayo").
		WillReturnRows(rows)

	user, err := repo.GetByUsername(context.Background(), "arobayo")
	require.NoError(t, err)
	assert.Equal(t, "arobayo@example.com", user.Email)
	assert.Equal(t, "Adriana Robayo", user.FullName)
	assert.Equal(t, "Adriana Robayo", user.AdministratorName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByAdministratorName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	gate := newRepoGate(t)
	repo := NewUserRepository(db, gate)

	rows := sqlmock.NewRows(userColumnsList()).
		AddRow(protectedUserRow(t, gate, "user-1", "arobayo", "a@example.com", "Adriana Robayo", "Adriana Robayo")...).
		AddRow(protectedUserRow(t, gate, "user-2", "izuluaga", "i@example.com", "Ivan Zuluaga", "Ivan Zuluaga")...)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE is_active = TRUE")).
		WillReturnRows(rows)

	user, err := repo.GetByAdministratorName(context.Background(), "Ivan Zuluaga")
	require.NoError(t, err)
	assert.Equal(t, "user-2", user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByAdministratorNameMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db, newRepoGate(t))

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE is_active = TRUE")).
		WillReturnRows(sqlmock.NewRows(userColumnsList()))

	_, err := repo.GetByAdministratorName(context.Background(), "Nadie Conocido")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateProtectsIdentity(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	gate := newRepoGate(t)
	repo := NewUserRepository(db, gate)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "arobayo", sqlmock.AnyArg(), "$2a$10$hash", sqlmock.AnyArg(),
			models.RoleOperator, sqlmock.AnyArg(), "VPI CUSIANA", true, false, nil,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{
		Username:          "arobayo",
		Email:             "arobayo@example.com",
		PasswordHash:      "$2a$10$hash",
		FullName:          "Adriana Robayo",
		Role:              models.RoleOperator,
		AdministratorName: "Adriana Robayo",
		ClientOperation:   "VPI CUSIANA",
		Active:            true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	require.NotEmpty(t, user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
