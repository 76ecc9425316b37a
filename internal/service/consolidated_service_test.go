package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/models"
)

type fakeReportReader struct {
	byDate    map[string][]models.Report
	lastStart time.Time
	lastEnd   time.Time
}

func (f *fakeReportReader) ReportsByDate(date time.Time) ([]models.Report, error) {
	return f.byDate[date.Format("2006-01-02")], nil
}

func (f *fakeReportReader) ReportsByRange(start, end time.Time) ([]models.Report, error) {
	f.lastStart, f.lastEnd = start, end
	var out []models.Report
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, f.byDate[d.Format("2006-01-02")]...)
	}
	return out, nil
}

func bogota(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	return loc
}

func report(admin, op string, hours float64, staff, base int, facts string, date time.Time) models.Report {
	return models.Report{
		Administrator:   admin,
		ClientOperation: op,
		DailyHours:      hours,
		StaffPersonnel:  staff,
		BasePersonnel:   base,
		RelevantFacts:   facts,
		ReportDate:      date,
		CreatedAt:       date.Add(18 * time.Hour),
	}
}

func newConsolidated(t *testing.T, reader *fakeReportReader, at time.Time) *ConsolidatedService {
	t.Helper()
	svc := NewConsolidatedService(reader, nil, nil, time.Minute, bogota(t), zap.NewNop())
	svc.now = func() time.Time { return at }
	return svc
}

func TestDailyGeneralPoolsTotalsAndTagsOrigins(t *testing.T) {
	loc := bogota(t)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)

	r1 := report("Adriana Robayo", "VPI CUSIANA", 8, 2, 10, "sin novedad", day)
	r1.Incidents = []models.Incident{{IncidentType: "Vacaciones", EmployeeName: "Pedro Alvarez", EndDate: day}}
	r2 := report("Ivan Zuluaga", "OXY", 10, 3, 5, "", day)
	r2.Movements = []models.Movement{{EmployeeName: "Lucia Gomez", Position: "Analista", MovementType: models.MovementIngreso}}

	reader := &fakeReportReader{byDate: map[string][]models.Report{"2024-01-15": {r1, r2}}}
	svc := newConsolidated(t, reader, day.Add(20*time.Hour))

	got, err := svc.DailyGeneral(context.Background(), dto.ConsolidatedQuery{Fecha: "2024-01-15"})
	require.NoError(t, err)

	assert.Equal(t, 9.0, got.PromedioHorasDiarias)
	assert.Equal(t, 5, got.TotalPersonalStaff)
	assert.Equal(t, 15, got.TotalPersonalBase)
	assert.Equal(t, 2, got.TotalReportes)
	assert.Equal(t, []string{"VPI CUSIANA", "OXY"}, got.OperacionesReportadas)

	require.Len(t, got.Incidencias, 1)
	assert.Equal(t, "Adriana Robayo", got.Incidencias[0].Administrador)
	assert.Equal(t, "VPI CUSIANA", got.Incidencias[0].ClienteOperacion)

	require.Len(t, got.Movimientos, 1)
	assert.Equal(t, "Ivan Zuluaga", got.Movimientos[0].Administrador)

	// Empty relevant facts are excluded, not emitted as empty strings.
	require.Len(t, got.HechosRelevantes, 1)
	assert.Equal(t, "sin novedad", got.HechosRelevantes[0].Hecho)
}

func TestDailyGeneralEmptyDayYieldsZeroAverage(t *testing.T) {
	loc := bogota(t)
	reader := &fakeReportReader{byDate: map[string][]models.Report{}}
	svc := newConsolidated(t, reader, time.Date(2024, 1, 15, 12, 0, 0, 0, loc))

	got, err := svc.DailyGeneral(context.Background(), dto.ConsolidatedQuery{Fecha: "2024-01-15"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.PromedioHorasDiarias)
	assert.Equal(t, 0, got.TotalReportes)
	assert.Empty(t, got.Incidencias)
	assert.Empty(t, got.HechosRelevantes)
}

func TestDailyDetailedOmitsOperationsWithoutReports(t *testing.T) {
	loc := bogota(t)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)

	reader := &fakeReportReader{byDate: map[string][]models.Report{
		"2024-01-15": {
			report("Adriana Robayo", "VPI CUSIANA", 8, 2, 10, "", day),
			report("Angela Ramirez", "VPI CUSIANA", 10, 1, 4, "", day),
			report("Ivan Zuluaga", "OXY", 12, 3, 5, "", day),
		},
	}}
	svc := newConsolidated(t, reader, day.Add(20*time.Hour))

	got, err := svc.DailyDetailed(context.Background(), dto.ConsolidatedQuery{Fecha: "2024-01-15"})
	require.NoError(t, err)

	require.Len(t, got.Operaciones, 2)
	assert.Equal(t, 2, got.TotalOperaciones)
	assert.Equal(t, 3, got.TotalReportes)

	cusiana := got.Operaciones[0]
	assert.Equal(t, "VPI CUSIANA", cusiana.ClienteOperacion)
	assert.Equal(t, 2, cusiana.NumReportes)
	assert.Equal(t, 9.0, cusiana.HorasDiarias)
	assert.True(t, cusiana.EsPromedioHoras)
	assert.Equal(t, 3, cusiana.PersonalStaff)
	assert.Equal(t, []string{"Adriana Robayo", "Angela Ramirez"}, cusiana.Administradores)

	oxy := got.Operaciones[1]
	assert.Equal(t, 12.0, oxy.HorasDiarias)
	assert.False(t, oxy.EsPromedioHoras)
}

func TestAccumulatedGeneralDefaultsToMondayThroughToday(t *testing.T) {
	loc := bogota(t)
	// Thursday 2024-01-18.
	now := time.Date(2024, 1, 18, 15, 0, 0, 0, loc)

	reader := &fakeReportReader{byDate: map[string][]models.Report{}}
	svc := newConsolidated(t, reader, now)

	got, err := svc.AccumulatedGeneral(context.Background(), dto.ConsolidatedQuery{})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-15", got.FechaInicio)
	assert.Equal(t, "2024-01-18", got.FechaFin)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), reader.lastStart)
	assert.Equal(t, time.Date(2024, 1, 18, 0, 0, 0, 0, loc), reader.lastEnd)
}

func TestAccumulatedGeneralExplicitRangeOverridesDefault(t *testing.T) {
	loc := bogota(t)
	now := time.Date(2024, 1, 18, 15, 0, 0, 0, loc)

	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, loc)
	d2 := time.Date(2024, 1, 3, 0, 0, 0, 0, loc)
	reader := &fakeReportReader{byDate: map[string][]models.Report{
		"2024-01-02": {report("Adriana Robayo", "OXY", 8, 1, 1, "", d1)},
		"2024-01-03": {report("Adriana Robayo", "OXY", 10, 1, 1, "", d2)},
	}}
	svc := newConsolidated(t, reader, now)

	got, err := svc.AccumulatedGeneral(context.Background(), dto.ConsolidatedQuery{
		FechaInicio: "2024-01-02",
		FechaFin:    "2024-01-03",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalReportes)
	// Pooled mean across all reports in range, not per-day means averaged.
	assert.Equal(t, 9.0, got.PromedioHorasDiarias)
}

func TestAccumulatedDetailedComputesPerOperationMeans(t *testing.T) {
	loc := bogota(t)
	now := time.Date(2024, 1, 18, 15, 0, 0, 0, loc)

	d1 := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)
	d2 := time.Date(2024, 1, 16, 0, 0, 0, 0, loc)
	reader := &fakeReportReader{byDate: map[string][]models.Report{
		"2024-01-15": {report("Adriana Robayo", "OXY", 8, 2, 10, "novedad uno", d1)},
		"2024-01-16": {report("Adriana Robayo", "OXY", 9, 4, 20, "", d2)},
	}}
	svc := newConsolidated(t, reader, now)

	got, err := svc.AccumulatedDetailed(context.Background(), dto.ConsolidatedQuery{
		FechaInicio: "2024-01-15",
		FechaFin:    "2024-01-16",
	})
	require.NoError(t, err)

	require.Len(t, got.Operaciones, 1)
	op := got.Operaciones[0]
	assert.Equal(t, 2, op.NumReportes)
	assert.Equal(t, 8.5, op.PromedioHorasDiarias)
	assert.Equal(t, 3.0, op.PromedioPersonalStaff)
	assert.Equal(t, 15.0, op.PromedioPersonalBase)
	assert.Equal(t, 1, op.TotalHechosRelevantes)
}

func TestResolveRangeRejectsInvertedRange(t *testing.T) {
	loc := bogota(t)
	svc := newConsolidated(t, &fakeReportReader{}, time.Date(2024, 1, 18, 15, 0, 0, 0, loc))

	_, err := svc.AccumulatedGeneral(context.Background(), dto.ConsolidatedQuery{
		FechaInicio: "2024-01-10",
		FechaFin:    "2024-01-05",
	})
	require.Error(t, err)
}
