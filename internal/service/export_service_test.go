package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/models"
)

func exportFixture(t *testing.T) *ExportService {
	t.Helper()
	tabular := newFakeTabular()
	tabular.reports["RPT-20240115-001"] = &models.Report{
		LegacyID:        "RPT-20240115-001",
		Administrator:   "Adriana Robayo",
		ClientOperation: "VPI CUSIANA",
		DailyHours:      8.5,
		StaffPersonnel:  2,
		BasePersonnel:   10,
		RelevantFacts:   "sin novedad",
		ReportDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, bogota(t)),
		Incidents:       []models.Incident{{IncidentType: "Vacaciones", EmployeeName: "Juan Perez"}},
	}
	return NewExportService(tabular, bogota(t), zap.NewNop())
}

func TestExportCSVContainsWorkbookColumns(t *testing.T) {
	svc := exportFixture(t)

	out, err := svc.Export(context.Background(), dto.ReportListQuery{}, ExportCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", out.ContentType)
	assert.True(t, strings.HasPrefix(out.Filename, "reportes_"))
	assert.True(t, strings.HasSuffix(out.Filename, ".csv"))

	content := string(out.Data)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Horas_Diarias")
	assert.Contains(t, lines[0], "Hechos_Relevantes")
	assert.Contains(t, lines[1], "RPT-20240115-001")
	assert.Contains(t, lines[1], "8.5")
	assert.Contains(t, lines[1], "sin novedad")
}

func TestExportPDFRendersDocument(t *testing.T) {
	svc := exportFixture(t)

	out, err := svc.Export(context.Background(), dto.ReportListQuery{}, ExportPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", out.ContentType)
	assert.True(t, strings.HasSuffix(out.Filename, ".pdf"))
	require.NotEmpty(t, out.Data)
	assert.True(t, strings.HasPrefix(string(out.Data), "%PDF"))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := exportFixture(t)

	_, err := svc.Export(context.Background(), dto.ReportListQuery{}, ExportFormat("xlsx"))
	require.Error(t, err)
}
