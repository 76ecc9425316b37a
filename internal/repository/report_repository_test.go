package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/config"
	"github.com/noah-isme/adr-api/pkg/crypto"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func newRepoGate(t *testing.T) *crypto.FieldGate {
	t.Helper()
	cipher, err := crypto.NewCipher(config.EncryptionConfig{Password: "repo-test", Salt: "repo-salt"})
	require.NoError(t, err)
	return crypto.NewFieldGate(cipher, zap.NewNop())
}

func TestReportRepositoryCreateGraph(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db, newRepoGate(t))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reports")).
		WithArgs(sqlmock.AnyArg(), "RPT-20240115-001", nil, "Adriana Robayo", "VPI CUSIANA",
			8.0, 2, 10, sqlmock.AnyArg(), models.ReportStatusCompleted,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "10.0.0.1", "agent").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO incidents")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Vacaciones", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movements")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "Analista", models.MovementIngreso, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	report := &models.Report{
		LegacyID:        "RPT-20240115-001",
		Administrator:   "Adriana Robayo",
		ClientOperation: "VPI CUSIANA",
		DailyHours:      8,
		StaffPersonnel:  2,
		BasePersonnel:   10,
		RelevantFacts:   "sin novedad",
		ReportDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		ClientIP:        "10.0.0.1",
		UserAgent:       "agent",
		Incidents: []models.Incident{{
			IncidentType: "Vacaciones",
			EmployeeName: "Pedro Alvarez",
			EndDate:      time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
		}},
		Movements: []models.Movement{{
			EmployeeName: "Lucia Gomez",
			Position:     "Analista",
			MovementType: models.MovementIngreso,
		}},
	}
	require.NoError(t, repo.CreateGraph(context.Background(), report))
	require.NotEmpty(t, report.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdateReplacesChildren(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db, newRepoGate(t))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM reports WHERE legacy_id = $1")).
		WithArgs("RPT-20240115-001").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("uuid-1"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reports SET daily_hours = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(12.5, sqlmock.AnyArg(), "uuid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM incidents WHERE report_id = $1")).
		WithArgs("uuid-1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO incidents")).
		WithArgs(sqlmock.AnyArg(), "uuid-1", "Vacaciones", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	hours := 12.5
	err := repo.UpdateByLegacyID(context.Background(), "RPT-20240115-001", models.ReportUpdate{
		DailyHours: &hours,
		Incidents: []models.Incident{{
			IncidentType: "Vacaciones",
			EmployeeName: "Nuevo Empleado",
			EndDate:      time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		}},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryDeleteByLegacyID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db, newRepoGate(t))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reports WHERE legacy_id = $1")).
		WithArgs("RPT-20240115-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.DeleteByLegacyID(context.Background(), "RPT-20240115-001")
	require.NoError(t, err)
	require.True(t, found)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reports WHERE legacy_id = $1")).
		WithArgs("RPT-00000000-000").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err = repo.DeleteByLegacyID(context.Background(), "RPT-00000000-000")
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListLegacyIDsByRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db, newRepoGate(t))

	rows := sqlmock.NewRows([]string{"legacy_id"}).
		AddRow("RPT-20240115-001").
		AddRow("RPT-20240115-002")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT legacy_id FROM reports WHERE report_date >= $1 AND report_date <= $2 ORDER BY legacy_id ASC")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	ids, err := repo.ListLegacyIDsByRange(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	require.Equal(t, []string{"RPT-20240115-001", "RPT-20240115-002"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
