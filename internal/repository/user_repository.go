package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/crypto"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
)

const userColumns = `id, username, email, password_hash, full_name, role, administrator_name, client_operation, is_active, is_verified, last_login, created_at, updated_at`

// UserRepository persists login identities in the relational store.
type UserRepository struct {
	db   *sqlx.DB
	gate *crypto.FieldGate
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB, gate *crypto.FieldGate) *UserRepository {
	return &UserRepository{db: db, gate: gate}
}

// Create inserts a user with protected identity columns.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	email, err := r.gate.ProtectValue(crypto.TableUsers, "email", user.Email)
	if err != nil {
		return fmt.Errorf("protect user fields: %w", err)
	}
	fullName, err := r.gate.ProtectValue(crypto.TableUsers, "full_name", user.FullName)
	if err != nil {
		return fmt.Errorf("protect user fields: %w", err)
	}
	adminName, err := r.gate.ProtectValue(crypto.TableUsers, "administrator_name", user.AdministratorName)
	if err != nil {
		return fmt.Errorf("protect user fields: %w", err)
	}

	const query = `INSERT INTO users (id, username, email, password_hash, full_name, role, administrator_name, client_operation, is_active, is_verified, last_login, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, email, user.PasswordHash, fullName, user.Role,
		adminName, user.ClientOperation, user.Active, user.Verified, user.LastLogin,
		user.CreatedAt, user.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername fetches a user by its login name.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	r.reveal(&user)
	return &user, nil
}

// GetByID fetches a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	r.reveal(&user)
	return &user, nil
}

// GetByAdministratorName resolves the account linked to a report attribution
// name. The column is stored encrypted, so the comparison happens after
// revealing each active candidate; the user table is small enough for that.
func (r *UserRepository) GetByAdministratorName(ctx context.Context, name string) (*models.User, error) {
	users, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].AdministratorName == name {
			return &users[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no user linked to administrator %q", name))
}

// ListActive returns every active account with revealed identity columns.
func (r *UserRepository) ListActive(ctx context.Context) ([]models.User, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE is_active = TRUE ORDER BY username ASC`, userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	for i := range users {
		r.reveal(&users[i])
	}
	return users, nil
}

// UpdatePassword stores a new password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	const query = `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// TouchLastLogin records a successful authentication.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	const query = `UPDATE users SET last_login = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (r *UserRepository) reveal(user *models.User) {
	user.Email = r.gate.RevealValue(crypto.TableUsers, "email", user.Email)
	user.FullName = r.gate.RevealValue(crypto.TableUsers, "full_name", user.FullName)
	user.AdministratorName = r.gate.RevealValue(crypto.TableUsers, "administrator_name", user.AdministratorName)
}
