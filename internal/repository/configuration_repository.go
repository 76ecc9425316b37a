package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/adr-api/internal/models"
)

// ConfigurationRepository mirrors the runtime parameter table.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// Upsert writes one parameter. Last write wins on key collision.
func (r *ConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO system_config (key, value, description, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, cfg.Key, cfg.Value, cfg.Description, cfg.UpdatedAt); err != nil {
		return fmt.Errorf("upsert configuration: %w", err)
	}
	return nil
}

// List returns every parameter ordered by key.
func (r *ConfigurationRepository) List(ctx context.Context) ([]models.Configuration, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	const query = `SELECT key, value, description, updated_at FROM system_config ORDER BY key ASC`
	var out []models.Configuration
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list configuration: %w", err)
	}
	return out, nil
}
