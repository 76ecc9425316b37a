package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/crypto"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
)

const reportColumns = `id, legacy_id, user_id, administrator, client_operation, daily_hours, staff_personnel, base_personnel, relevant_facts, status, report_date, created_at, updated_at, client_ip, user_agent`

// ReportRepository mirrors report graphs into PostgreSQL. Sensitive columns
// pass through the field gate on both directions.
type ReportRepository struct {
	db   *sqlx.DB
	gate *crypto.FieldGate
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB, gate *crypto.FieldGate) *ReportRepository {
	return &ReportRepository{db: db, gate: gate}
}

// CreateGraph inserts the report with its incidents and movements in one
// transaction.
func (r *ReportRepository) CreateGraph(ctx context.Context, report *models.Report) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.Status == "" {
		report.Status = models.ReportStatusCompleted
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	report.UpdatedAt = report.CreatedAt

	facts, err := r.gate.ProtectValue(crypto.TableReports, "relevant_facts", report.RelevantFacts)
	if err != nil {
		return fmt.Errorf("protect report fields: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mirror tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `INSERT INTO reports (id, legacy_id, user_id, administrator, client_operation, daily_hours, staff_personnel, base_personnel, relevant_facts, status, report_date, created_at, updated_at, client_ip, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	if _, err := tx.ExecContext(ctx, query,
		report.ID, report.LegacyID, report.UserID, report.Administrator, report.ClientOperation,
		report.DailyHours, report.StaffPersonnel, report.BasePersonnel, facts, report.Status,
		report.ReportDate, report.CreatedAt, report.UpdatedAt, report.ClientIP, report.UserAgent,
	); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	if err := r.insertIncidents(ctx, tx, report.ID, report.Incidents); err != nil {
		return err
	}
	if err := r.insertMovements(ctx, tx, report.ID, report.Movements); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mirror tx: %w", err)
	}
	return nil
}

func (r *ReportRepository) insertIncidents(ctx context.Context, tx *sqlx.Tx, reportID string, incidents []models.Incident) error {
	const query = `INSERT INTO incidents (id, report_id, incident_type, employee_name, end_date, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range incidents {
		inc := &incidents[i]
		if inc.ID == "" {
			inc.ID = uuid.NewString()
		}
		if inc.CreatedAt.IsZero() {
			inc.CreatedAt = time.Now().UTC()
		}
		name, err := r.gate.ProtectValue(crypto.TableIncidents, "employee_name", inc.EmployeeName)
		if err != nil {
			return fmt.Errorf("protect incident fields: %w", err)
		}
		notes, err := r.gate.ProtectValue(crypto.TableIncidents, "notes", inc.Notes)
		if err != nil {
			return fmt.Errorf("protect incident fields: %w", err)
		}
		var endDate interface{}
		if !inc.EndDate.IsZero() {
			endDate = inc.EndDate
		}
		if _, err := tx.ExecContext(ctx, query, inc.ID, reportID, inc.IncidentType, name, endDate, notes, inc.CreatedAt); err != nil {
			return fmt.Errorf("insert incident: %w", err)
		}
	}
	return nil
}

func (r *ReportRepository) insertMovements(ctx context.Context, tx *sqlx.Tx, reportID string, movements []models.Movement) error {
	const query = `INSERT INTO movements (id, report_id, employee_name, position, movement_type, effective_date, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range movements {
		mov := &movements[i]
		if mov.ID == "" {
			mov.ID = uuid.NewString()
		}
		if mov.CreatedAt.IsZero() {
			mov.CreatedAt = time.Now().UTC()
		}
		name, err := r.gate.ProtectValue(crypto.TableMovements, "employee_name", mov.EmployeeName)
		if err != nil {
			return fmt.Errorf("protect movement fields: %w", err)
		}
		notes, err := r.gate.ProtectValue(crypto.TableMovements, "notes", mov.Notes)
		if err != nil {
			return fmt.Errorf("protect movement fields: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, mov.ID, reportID, name, mov.Position, mov.MovementType, mov.EffectiveDate, notes, mov.CreatedAt); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}
	}
	return nil
}

// GetByLegacyID fetches a full mirror graph by the tabular identifier.
func (r *ReportRepository) GetByLegacyID(ctx context.Context, legacyID string) (*models.Report, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE legacy_id = $1`, reportColumns)
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, legacyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("report %s not found", legacyID))
		}
		return nil, fmt.Errorf("get report by legacy id: %w", err)
	}
	if err := r.attachChildren(ctx, &report); err != nil {
		return nil, err
	}
	r.reveal(&report)
	return &report, nil
}

func (r *ReportRepository) attachChildren(ctx context.Context, report *models.Report) error {
	const incQuery = `SELECT id, report_id, incident_type, employee_name, end_date, notes, created_at
FROM incidents WHERE report_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &report.Incidents, incQuery, report.ID); err != nil {
		return fmt.Errorf("list incidents: %w", err)
	}
	const movQuery = `SELECT id, report_id, employee_name, position, movement_type, effective_date, notes, created_at
FROM movements WHERE report_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &report.Movements, movQuery, report.ID); err != nil {
		return fmt.Errorf("list movements: %w", err)
	}
	return nil
}

func (r *ReportRepository) reveal(report *models.Report) {
	report.RelevantFacts = r.gate.RevealValue(crypto.TableReports, "relevant_facts", report.RelevantFacts)
	for i := range report.Incidents {
		report.Incidents[i].EmployeeName = r.gate.RevealValue(crypto.TableIncidents, "employee_name", report.Incidents[i].EmployeeName)
		report.Incidents[i].Notes = r.gate.RevealValue(crypto.TableIncidents, "notes", report.Incidents[i].Notes)
	}
	for i := range report.Movements {
		report.Movements[i].EmployeeName = r.gate.RevealValue(crypto.TableMovements, "employee_name", report.Movements[i].EmployeeName)
		report.Movements[i].Notes = r.gate.RevealValue(crypto.TableMovements, "notes", report.Movements[i].Notes)
	}
}

// UpdateByLegacyID applies a partial update to the mirror row. Supplied child
// lists replace the existing sets (delete-all-then-insert).
func (r *ReportRepository) UpdateByLegacyID(ctx context.Context, legacyID string, upd models.ReportUpdate) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	var reportID string
	if err := r.db.GetContext(ctx, &reportID, `SELECT id FROM reports WHERE legacy_id = $1`, legacyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("report %s not found", legacyID))
		}
		return fmt.Errorf("resolve report id: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mirror tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	set := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	argPos := 1

	if upd.DailyHours != nil {
		set = append(set, fmt.Sprintf("daily_hours = $%d", argPos))
		args = append(args, *upd.DailyHours)
		argPos++
	}
	if upd.StaffPersonnel != nil {
		set = append(set, fmt.Sprintf("staff_personnel = $%d", argPos))
		args = append(args, *upd.StaffPersonnel)
		argPos++
	}
	if upd.BasePersonnel != nil {
		set = append(set, fmt.Sprintf("base_personnel = $%d", argPos))
		args = append(args, *upd.BasePersonnel)
		argPos++
	}
	if upd.RelevantFacts != nil {
		facts, err := r.gate.ProtectValue(crypto.TableReports, "relevant_facts", *upd.RelevantFacts)
		if err != nil {
			return fmt.Errorf("protect report fields: %w", err)
		}
		set = append(set, fmt.Sprintf("relevant_facts = $%d", argPos))
		args = append(args, facts)
		argPos++
	}

	set = append(set, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	query := fmt.Sprintf("UPDATE reports SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, reportID)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update report: %w", err)
	}

	if upd.Incidents != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM incidents WHERE report_id = $1`, reportID); err != nil {
			return fmt.Errorf("clear incidents: %w", err)
		}
		if err := r.insertIncidents(ctx, tx, reportID, upd.Incidents); err != nil {
			return err
		}
	}
	if upd.Movements != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM movements WHERE report_id = $1`, reportID); err != nil {
			return fmt.Errorf("clear movements: %w", err)
		}
		if err := r.insertMovements(ctx, tx, reportID, upd.Movements); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mirror tx: %w", err)
	}
	return nil
}

// DeleteByLegacyID removes the mirror row. Children cascade via foreign keys.
// The boolean reports whether a row existed.
func (r *ReportRepository) DeleteByLegacyID(ctx context.Context, legacyID string) (bool, error) {
	if r.db == nil {
		return false, ErrStoreUnavailable
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE legacy_id = $1`, legacyID)
	if err != nil {
		return false, fmt.Errorf("delete report: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete report rows affected: %w", err)
	}
	return affected > 0, nil
}

// ExistsByLegacyID reports whether the mirror holds the identifier.
func (r *ReportRepository) ExistsByLegacyID(ctx context.Context, legacyID string) (bool, error) {
	if r.db == nil {
		return false, ErrStoreUnavailable
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM reports WHERE legacy_id = $1)`, legacyID); err != nil {
		return false, fmt.Errorf("check report exists: %w", err)
	}
	return exists, nil
}

// ListLegacyIDsByRange returns the mirrored identifiers for a report-date
// range. The reconciler diffs this against the tabular store.
func (r *ReportRepository) ListLegacyIDsByRange(ctx context.Context, start, end time.Time) ([]string, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	var ids []string
	const query = `SELECT legacy_id FROM reports WHERE report_date >= $1 AND report_date <= $2 ORDER BY legacy_id ASC`
	if err := r.db.SelectContext(ctx, &ids, query, start, end); err != nil {
		return nil, fmt.Errorf("list mirrored legacy ids: %w", err)
	}
	return ids, nil
}
