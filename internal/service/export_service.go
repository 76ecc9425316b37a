package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/models"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
	"github.com/noah-isme/adr-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

var exportHeaders = []string{
	"ID", "Fecha", "Administrador", "Cliente_Operacion", "Horas_Diarias",
	"Personal_Staff", "Personal_Base", "Incidencias", "Movimientos", "Hechos_Relevantes",
}

type exportReportSource interface {
	List(filter models.ReportFilter) ([]models.Report, int, error)
}

// ExportService renders filtered report listings as CSV or PDF downloads.
type ExportService struct {
	source exportReportSource
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(source exportReportSource, loc *time.Location, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		source: source,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		loc:    loc,
		logger: logger,
	}
}

// Export renders every report matching the filter. Pagination is bypassed:
// an export always covers the whole match set.
func (s *ExportService) Export(ctx context.Context, q dto.ReportListQuery, format ExportFormat) (*ExportResult, error) {
	filter := models.ReportFilter{
		Administrator: q.Administrador,
		Operation:     q.Cliente,
		Page:          1,
		PageSize:      10000,
	}
	if q.FechaInicio != "" {
		if d, err := time.ParseInLocation(dto.DateLayout, q.FechaInicio, s.loc); err == nil {
			filter.StartDate = &d
		}
	}
	if q.FechaFin != "" {
		if d, err := time.ParseInLocation(dto.DateLayout, q.FechaFin, s.loc); err == nil {
			filter.EndDate = &d
		}
	}

	reports, _, err := s.source.List(filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(reports))}
	for _, r := range reports {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":                r.LegacyID,
			"Fecha":             r.ReportDate.Format(dto.DateLayout),
			"Administrador":     r.Administrator,
			"Cliente_Operacion": r.ClientOperation,
			"Horas_Diarias":     strconv.FormatFloat(r.DailyHours, 'f', -1, 64),
			"Personal_Staff":    strconv.Itoa(r.StaffPersonnel),
			"Personal_Base":     strconv.Itoa(r.BasePersonnel),
			"Incidencias":       strconv.Itoa(len(r.Incidents)),
			"Movimientos":       strconv.Itoa(len(r.Movements)),
			"Hechos_Relevantes": r.RelevantFacts,
		})
	}

	stamp := time.Now().In(s.loc).Format("20060102_150405")
	switch format {
	case ExportCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "export failed")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("reportes_%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportPDF:
		data, err := s.pdf.Render(dataset, "Reportes Diarios de Operaciones")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "export failed")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("reportes_%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
