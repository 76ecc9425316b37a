package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/crypto"
)

// AuditRepository appends audit trail rows. The table is insert-only.
type AuditRepository struct {
	db   *sqlx.DB
	gate *crypto.FieldGate
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB, gate *crypto.FieldGate) *AuditRepository {
	return &AuditRepository{db: db, gate: gate}
}

// Insert appends one audit record.
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	details, err := r.gate.ProtectValue(crypto.TableAuditLogs, "details", entry.Details)
	if err != nil {
		return fmt.Errorf("protect audit details: %w", err)
	}

	const query = `INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, client_ip, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID,
		details, entry.ClientIP, entry.UserAgent, entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries for the admin activity panel.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, user_id, action, resource_type, resource_id, details, client_ip, user_agent, created_at
FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	var entries []models.AuditLog
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	for i := range entries {
		entries[i].Details = r.gate.RevealValue(crypto.TableAuditLogs, "details", entries[i].Details)
	}
	return entries, nil
}
