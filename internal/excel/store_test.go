package excel

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/config"
	"github.com/noah-isme/adr-api/pkg/crypto"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cipher, err := crypto.NewCipher(config.EncryptionConfig{Password: "test", Salt: "salt"})
	require.NoError(t, err)
	gate := crypto.NewFieldGate(cipher, zap.NewNop())

	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	dir := t.TempDir()
	store, err := NewStore(config.ExcelConfig{
		FilePath:   filepath.Join(dir, "reportes.xlsx"),
		BackupDir:  filepath.Join(dir, "backups"),
		MaxBackups: 3,
	}, loc, gate, zap.NewNop())
	require.NoError(t, err)
	return store
}

func testReport(admin, operation string, date time.Time) *models.Report {
	return &models.Report{
		Administrator:   admin,
		ClientOperation: operation,
		DailyHours:      8,
		StaffPersonnel:  2,
		BasePersonnel:   10,
		RelevantFacts:   "sin novedad",
		ReportDate:      date,
		CreatedAt:       date.Add(18 * time.Hour),
		ClientIP:        "10.0.0.1",
		UserAgent:       "test-agent",
	}
}

func TestStoreSequentialIdentifiers(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, store.loc)

	for i, want := range []string{"RPT-20240115-001", "RPT-20240115-002", "RPT-20240115-003"} {
		r := testReport("Adriana Robayo", "VPI CUSIANA", date)
		require.NoError(t, store.SaveReport(r), "report %d", i+1)
		assert.Equal(t, want, r.LegacyID)
	}

	// A different date restarts the sequence.
	other := testReport("Adriana Robayo", "VPI CUSIANA", date.AddDate(0, 0, 1))
	require.NoError(t, store.SaveReport(other))
	assert.Equal(t, "RPT-20240116-001", other.LegacyID)
}

func TestStoreSaveAndFetchGraph(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, store.loc)

	r := testReport("Marcela Cosavalente", "OXY", date)
	end := date.AddDate(0, 0, 10)
	r.Incidents = []models.Incident{{
		IncidentType: "Vacaciones",
		EmployeeName: "Pedro Alvarez",
		EndDate:      end,
	}}
	r.Movements = []models.Movement{{
		EmployeeName: "Lucia Gomez",
		Position:     "Analista",
		MovementType: models.MovementIngreso,
	}}
	require.NoError(t, store.SaveReport(r))

	got, err := store.ReportByID(r.LegacyID)
	require.NoError(t, err)
	assert.Equal(t, "Marcela Cosavalente", got.Administrator)
	assert.Equal(t, 8.0, got.DailyHours)
	assert.Equal(t, "sin novedad", got.RelevantFacts)
	require.Len(t, got.Incidents, 1)
	assert.Equal(t, "Pedro Alvarez", got.Incidents[0].EmployeeName)
	require.Len(t, got.Movements, 1)
	assert.Equal(t, models.MovementIngreso, got.Movements[0].MovementType)
}

func TestStoreSensitiveColumnsAreEncryptedAtRest(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, store.loc)

	r := testReport("Yolima Arenas Zarate", "Chevron", date)
	r.Incidents = []models.Incident{{
		IncidentType: "Compensatorios",
		EmployeeName: "Carlos Ruiz",
		EndDate:      date,
	}}
	require.NoError(t, store.SaveReport(r))

	f, err := excelize.OpenFile(store.Path())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetReports)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.NotEqual(t, "sin novedad", rows[1][colReportRelevantFacts])

	incRows, err := f.GetRows(SheetIncidents)
	require.NoError(t, err)
	require.Len(t, incRows, 2)
	assert.NotEqual(t, "Carlos Ruiz", incRows[1][colIncidentEmployee])
}

func TestStoreUpdateReplacesChildren(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2024, 5, 20, 0, 0, 0, 0, store.loc)

	r := testReport("Ivan Zuluaga", "Sierracol CRC", date)
	for i := 0; i < 5; i++ {
		r.Incidents = append(r.Incidents, models.Incident{
			IncidentType: "Vacaciones",
			EmployeeName: "Empleado Numero Cinco",
			EndDate:      date,
		})
	}
	require.NoError(t, store.SaveReport(r))

	hours := 12.5
	updated, err := store.UpdateReport(r.LegacyID, models.ReportUpdate{
		DailyHours: &hours,
		Incidents: []models.Incident{
			{IncidentType: "Suspensiones de contrato", EmployeeName: "Nuevo Empleado Uno", EndDate: date},
			{IncidentType: "Vacaciones", EmployeeName: "Nuevo Empleado Dos", EndDate: date},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.DailyHours)
	assert.Len(t, updated.Incidents, 2)

	got, err := store.ReportByID(r.LegacyID)
	require.NoError(t, err)
	assert.Len(t, got.Incidents, 2)
	assert.Equal(t, "Nuevo Empleado Uno", got.Incidents[0].EmployeeName)
	// Untouched fields survive the rewrite.
	assert.Equal(t, 2, got.StaffPersonnel)
	assert.Equal(t, "sin novedad", got.RelevantFacts)
}

func TestStoreDeleteCascades(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, store.loc)

	r := testReport("Angela Ramirez", "Parex", date)
	r.Incidents = []models.Incident{{IncidentType: "Vacaciones", EmployeeName: "Uno Dos Tres", EndDate: date}}
	r.Movements = []models.Movement{{EmployeeName: "Cuatro Cinco", Position: "Tecnico", MovementType: models.MovementRetiro}}
	require.NoError(t, store.SaveReport(r))

	keep := testReport("Angela Ramirez", "Parex", date)
	keep.Movements = []models.Movement{{EmployeeName: "Seis Siete", Position: "Auxiliar", MovementType: models.MovementIngreso}}
	require.NoError(t, store.SaveReport(keep))

	require.NoError(t, store.DeleteReport(r.LegacyID))

	_, err := store.ReportByID(r.LegacyID)
	require.Error(t, err)

	got, err := store.ReportByID(keep.LegacyID)
	require.NoError(t, err)
	assert.Len(t, got.Movements, 1)
	assert.Empty(t, got.Incidents)
}

func TestStoreListFiltersAndPaginates(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2024, 7, 10, 0, 0, 0, 0, store.loc)

	for i := 0; i < 3; i++ {
		r := testReport("Adriana Robayo", "VPI CUSIANA", date)
		r.CreatedAt = date.Add(time.Duration(8+i) * time.Hour)
		require.NoError(t, store.SaveReport(r))
	}
	other := testReport("Ivan Zuluaga", "OXY", date)
	require.NoError(t, store.SaveReport(other))

	page, total, err := store.List(models.ReportFilter{Administrator: "Adriana Robayo", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)
	// Newest first.
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	page2, _, err := store.List(models.ReportFilter{Administrator: "Adriana Robayo", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestStoreRangeQueryIsInclusive(t *testing.T) {
	store := newTestStore(t)

	for _, day := range []int{1, 2, 3, 4} {
		date := time.Date(2024, 8, day, 0, 0, 0, 0, store.loc)
		require.NoError(t, store.SaveReport(testReport("Adriana Robayo", "OXY", date)))
	}

	start := time.Date(2024, 8, 2, 0, 0, 0, 0, store.loc)
	end := time.Date(2024, 8, 3, 0, 0, 0, 0, store.loc)
	got, err := store.ReportsByRange(start, end)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStoreConfigurationLastWriteWins(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetConfiguration("max_reportes_por_dia", "10", "limite diario"))
	require.NoError(t, store.SetConfiguration("max_reportes_por_dia", "5", "limite ajustado"))
	require.NoError(t, store.SetConfiguration("version_esquema", "2", ""))

	configs, err := store.Configurations()
	require.NoError(t, err)
	require.Len(t, configs, 2)

	byKey := map[string]models.Configuration{}
	for _, c := range configs {
		byKey[c.Key] = c
	}
	assert.Equal(t, "5", byKey["max_reportes_por_dia"].Value)
	assert.Equal(t, "limite ajustado", byKey["max_reportes_por_dia"].Description)
}

func TestStoreRejectsDriftedSchema(t *testing.T) {
	store := newTestStore(t)

	f, err := excelize.OpenFile(store.Path())
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(SheetReports, "A1", "Identificador"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	loc, _ := time.LoadLocation("America/Bogota")
	cipher, err := crypto.NewCipher(config.EncryptionConfig{Password: "test", Salt: "salt"})
	require.NoError(t, err)

	_, err = NewStore(config.ExcelConfig{FilePath: store.Path()}, loc, crypto.NewFieldGate(cipher, zap.NewNop()), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reportes")
}

func TestReportDateFromID(t *testing.T) {
	loc, _ := time.LoadLocation("America/Bogota")

	d, ok := ReportDateFromID("RPT-20240115-002", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), d)

	_, ok = ReportDateFromID("not-an-id", loc)
	assert.False(t, ok)
}
