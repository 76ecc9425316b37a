package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/models"
)

type fakeAnalyticsSource struct {
	byDate map[string][]models.Report
	total  int
}

func (f *fakeAnalyticsSource) List(filter models.ReportFilter) ([]models.Report, int, error) {
	return nil, f.total, nil
}

func (f *fakeAnalyticsSource) ReportsByDate(date time.Time) ([]models.Report, error) {
	return f.byDate[date.Format("2006-01-02")], nil
}

func (f *fakeAnalyticsSource) ReportsByRange(start, end time.Time) ([]models.Report, error) {
	out := []models.Report{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, f.byDate[d.Format("2006-01-02")]...)
	}
	return out, nil
}

func analyticsReport(admin, operation string, hours float64, incidentTypes ...string) models.Report {
	r := models.Report{Administrator: admin, ClientOperation: operation, DailyHours: hours}
	for _, it := range incidentTypes {
		r.Incidents = append(r.Incidents, models.Incident{IncidentType: it})
	}
	return r
}

func TestDashboardAggregatesMonthToDate(t *testing.T) {
	source := &fakeAnalyticsSource{
		total: 40,
		byDate: map[string][]models.Report{
			"2024-01-17": {
				analyticsReport("Adriana Robayo", "VPI CUSIANA", 8, "Vacaciones"),
			},
			"2024-01-18": {
				analyticsReport("Adriana Robayo", "VPI CUSIANA", 10, "Vacaciones", "Compensatorios"),
				analyticsReport("Ivan Zuluaga", "OXY", 6),
			},
		},
	}
	svc := NewAnalyticsService(source, nil, time.Minute, bogota(t), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, 1, 18, 10, 0, 0, 0, bogota(t))
	}

	out, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, out.TotalReportes)
	assert.Equal(t, 2, out.ReportesHoy)
	assert.Equal(t, 3, out.TotalIncidenciasMes)
	assert.Equal(t, 2, out.AdministradoresActivos)
	// (8 + 10 + 6) / 3
	assert.InDelta(t, 8.0, out.PromedioHorasDiarias, 0.001)

	require.Len(t, out.Graficos.ReportesPorDia, 7)
	last := out.Graficos.ReportesPorDia[6]
	assert.Equal(t, "2024-01-18", last.Label)
	assert.Equal(t, 2.0, last.Value)

	require.Len(t, out.Graficos.ReportesPorOperacion, 2)
	assert.Equal(t, "VPI CUSIANA", out.Graficos.ReportesPorOperacion[0].Label)
	assert.Equal(t, 2.0, out.Graficos.ReportesPorOperacion[0].Value)

	require.Len(t, out.Graficos.IncidenciasPorTipo, 2)
	assert.Equal(t, "Vacaciones", out.Graficos.IncidenciasPorTipo[0].Label)
}

func TestDashboardEmptyStoreYieldsZeroes(t *testing.T) {
	source := &fakeAnalyticsSource{byDate: map[string][]models.Report{}}
	svc := NewAnalyticsService(source, nil, time.Minute, bogota(t), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, 1, 18, 10, 0, 0, 0, bogota(t))
	}

	out, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out.TotalReportes)
	assert.Zero(t, out.ReportesHoy)
	assert.Equal(t, 0.0, out.PromedioHorasDiarias)
	assert.Empty(t, out.Graficos.ReportesPorOperacion)
}
