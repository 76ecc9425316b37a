package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/models"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
)

type rangeReportReader interface {
	ReportsByDate(date time.Time) ([]models.Report, error)
	ReportsByRange(start, end time.Time) ([]models.Report, error)
}

type viewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ConsolidatedService computes the four consolidated views over the
// authoritative store: daily/accumulated crossed with general/detailed.
type ConsolidatedService struct {
	reports rangeReportReader
	cache   viewCache
	metrics *MetricsService
	ttl     time.Duration
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// NewConsolidatedService constructs the view engine.
func NewConsolidatedService(reports rangeReportReader, cache viewCache, metrics *MetricsService, ttl time.Duration, loc *time.Location, logger *zap.Logger) *ConsolidatedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ConsolidatedService{
		reports: reports,
		cache:   cache,
		metrics: metrics,
		ttl:     ttl,
		loc:     loc,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *ConsolidatedService) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// defaultRange is Monday of the current week through today, local time.
func (s *ConsolidatedService) defaultRange() (time.Time, time.Time) {
	today := s.today()
	offset := (int(today.Weekday()) + 6) % 7
	return today.AddDate(0, 0, -offset), today
}

func (s *ConsolidatedService) resolveDate(raw string) (time.Time, error) {
	if raw == "" {
		return s.today(), nil
	}
	d, err := time.ParseInLocation(dto.DateLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q", raw))
	}
	return d, nil
}

func (s *ConsolidatedService) resolveRange(q dto.ConsolidatedQuery) (time.Time, time.Time, error) {
	start, end := s.defaultRange()
	if q.FechaInicio != "" {
		d, err := time.ParseInLocation(dto.DateLayout, q.FechaInicio, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q", q.FechaInicio))
		}
		start = d
	}
	if q.FechaFin != "" {
		d, err := time.ParseInLocation(dto.DateLayout, q.FechaFin, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q", q.FechaFin))
		}
		end = d
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "fecha_fin precedes fecha_inicio")
	}
	return start, end, nil
}

func (s *ConsolidatedService) cached(ctx context.Context, key string, dest interface{}, compute func() (interface{}, error)) error {
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, dest); err == nil {
			s.metrics.RecordCacheLookup(true)
			return nil
		}
		s.metrics.RecordCacheLookup(false)
	}
	value, err := compute()
	if err != nil {
		return err
	}
	// compute fills dest through the closure; cache the result best effort.
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
			s.logger.Warn("view cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// DailyGeneral flattens one day's reports into pooled totals plus
// origin-tagged child lists.
func (s *ConsolidatedService) DailyGeneral(ctx context.Context, q dto.ConsolidatedQuery) (*dto.GeneralOperationsResponse, error) {
	date, err := s.resolveDate(q.Fecha)
	if err != nil {
		return nil, err
	}

	out := &dto.GeneralOperationsResponse{}
	key := fmt.Sprintf("consolidated:daily-general:%s", date.Format(dto.DateLayout))
	err = s.cached(ctx, key, out, func() (interface{}, error) {
		reports, err := s.reports.ReportsByDate(date)
		if err != nil {
			return nil, err
		}
		*out = s.buildGeneral(reports)
		out.Fecha = date.Format(dto.DateLayout)
		out.PeriodoDescripcion = fmt.Sprintf("Operaciones del %s", out.Fecha)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AccumulatedGeneral is the same flattening over an inclusive range; the
// mean of daily hours is pooled across every report in range.
func (s *ConsolidatedService) AccumulatedGeneral(ctx context.Context, q dto.ConsolidatedQuery) (*dto.GeneralOperationsResponse, error) {
	start, end, err := s.resolveRange(q)
	if err != nil {
		return nil, err
	}

	out := &dto.GeneralOperationsResponse{}
	key := fmt.Sprintf("consolidated:accumulated-general:%s:%s", start.Format(dto.DateLayout), end.Format(dto.DateLayout))
	err = s.cached(ctx, key, out, func() (interface{}, error) {
		reports, err := s.reports.ReportsByRange(start, end)
		if err != nil {
			return nil, err
		}
		*out = s.buildGeneral(reports)
		out.FechaInicio = start.Format(dto.DateLayout)
		out.FechaFin = end.Format(dto.DateLayout)
		out.PeriodoDescripcion = fmt.Sprintf("Del %s al %s", out.FechaInicio, out.FechaFin)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DailyDetailed groups one day's reports by operation.
func (s *ConsolidatedService) DailyDetailed(ctx context.Context, q dto.ConsolidatedQuery) (*dto.DailyDetailedResponse, error) {
	date, err := s.resolveDate(q.Fecha)
	if err != nil {
		return nil, err
	}

	out := &dto.DailyDetailedResponse{}
	key := fmt.Sprintf("consolidated:daily-detailed:%s", date.Format(dto.DateLayout))
	err = s.cached(ctx, key, out, func() (interface{}, error) {
		reports, err := s.reports.ReportsByDate(date)
		if err != nil {
			return nil, err
		}
		groups := groupByOperation(reports)
		resp := dto.DailyDetailedResponse{
			Fecha:              date.Format(dto.DateLayout),
			PeriodoDescripcion: fmt.Sprintf("Operaciones del %s", date.Format(dto.DateLayout)),
			TotalOperaciones:   len(groups),
			TotalReportes:      len(reports),
			Operaciones:        make([]dto.DailyOperationGroup, 0, len(groups)),
		}
		for _, g := range groups {
			hours := sumHours(g.reports)
			isMean := len(g.reports) > 1
			if isMean {
				hours = round2(hours / float64(len(g.reports)))
			}
			group := dto.DailyOperationGroup{
				ClienteOperacion: g.operation,
				Administradores:  g.administrators(),
				NumReportes:      len(g.reports),
				HorasDiarias:     hours,
				EsPromedioHoras:  isMean,
				PersonalStaff:    g.sumStaff(),
				PersonalBase:     g.sumBase(),
				Incidencias:      tagIncidents(g.reports),
				Movimientos:      tagMovements(g.reports),
				HechosRelevantes: tagFacts(g.reports),
			}
			group.TotalIncidencias = len(group.Incidencias)
			group.TotalMovimientos = len(group.Movimientos)
			group.TotalHechosRelevantes = len(group.HechosRelevantes)
			resp.Operaciones = append(resp.Operaciones, group)
		}
		*out = resp
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AccumulatedDetailed groups a range's reports by operation, with
// per-operation means over the range.
func (s *ConsolidatedService) AccumulatedDetailed(ctx context.Context, q dto.ConsolidatedQuery) (*dto.AccumulatedDetailedResponse, error) {
	start, end, err := s.resolveRange(q)
	if err != nil {
		return nil, err
	}

	out := &dto.AccumulatedDetailedResponse{}
	key := fmt.Sprintf("consolidated:accumulated-detailed:%s:%s", start.Format(dto.DateLayout), end.Format(dto.DateLayout))
	err = s.cached(ctx, key, out, func() (interface{}, error) {
		reports, err := s.reports.ReportsByRange(start, end)
		if err != nil {
			return nil, err
		}
		groups := groupByOperation(reports)
		resp := dto.AccumulatedDetailedResponse{
			FechaInicio:        start.Format(dto.DateLayout),
			FechaFin:           end.Format(dto.DateLayout),
			PeriodoDescripcion: fmt.Sprintf("Del %s al %s", start.Format(dto.DateLayout), end.Format(dto.DateLayout)),
			TotalOperaciones:   len(groups),
			TotalReportes:      len(reports),
			Operaciones:        make([]dto.AccumulatedOperationGroup, 0, len(groups)),
		}
		for _, g := range groups {
			n := float64(len(g.reports))
			group := dto.AccumulatedOperationGroup{
				ClienteOperacion:      g.operation,
				Administradores:       g.administrators(),
				NumReportes:           len(g.reports),
				PromedioHorasDiarias:  round2(sumHours(g.reports) / n),
				PromedioPersonalStaff: round2(float64(g.sumStaff()) / n),
				PromedioPersonalBase:  round2(float64(g.sumBase()) / n),
				Incidencias:           tagIncidents(g.reports),
				Movimientos:           tagMovements(g.reports),
				HechosRelevantes:      tagFacts(g.reports),
			}
			group.TotalIncidencias = len(group.Incidencias)
			group.TotalMovimientos = len(group.Movimientos)
			group.TotalHechosRelevantes = len(group.HechosRelevantes)
			resp.Operaciones = append(resp.Operaciones, group)
		}
		*out = resp
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// buildGeneral computes the flattened shape shared by both general views.
func (s *ConsolidatedService) buildGeneral(reports []models.Report) dto.GeneralOperationsResponse {
	resp := dto.GeneralOperationsResponse{
		TotalReportes:         len(reports),
		OperacionesReportadas: []string{},
		Incidencias:           tagIncidents(reports),
		Movimientos:           tagMovements(reports),
		HechosRelevantes:      tagFacts(reports),
	}

	seen := map[string]bool{}
	totalHours := 0.0
	for _, r := range reports {
		totalHours += r.DailyHours
		resp.TotalPersonalStaff += r.StaffPersonnel
		resp.TotalPersonalBase += r.BasePersonnel
		if !seen[r.ClientOperation] {
			seen[r.ClientOperation] = true
			resp.OperacionesReportadas = append(resp.OperacionesReportadas, r.ClientOperation)
		}
	}
	if len(reports) > 0 {
		resp.PromedioHorasDiarias = round2(totalHours / float64(len(reports)))
	}
	resp.TotalIncidencias = len(resp.Incidencias)
	resp.TotalMovimientos = len(resp.Movimientos)
	return resp
}

type operationGroup struct {
	operation string
	reports   []models.Report
}

func (g operationGroup) administrators() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range g.reports {
		if !seen[r.Administrator] {
			seen[r.Administrator] = true
			out = append(out, r.Administrator)
		}
	}
	return out
}

func (g operationGroup) sumStaff() int {
	total := 0
	for _, r := range g.reports {
		total += r.StaffPersonnel
	}
	return total
}

func (g operationGroup) sumBase() int {
	total := 0
	for _, r := range g.reports {
		total += r.BasePersonnel
	}
	return total
}

// groupByOperation preserves first-appearance order and never emits an
// operation without reports.
func groupByOperation(reports []models.Report) []operationGroup {
	index := map[string]int{}
	groups := []operationGroup{}
	for _, r := range reports {
		i, ok := index[r.ClientOperation]
		if !ok {
			i = len(groups)
			index[r.ClientOperation] = i
			groups = append(groups, operationGroup{operation: r.ClientOperation})
		}
		groups[i].reports = append(groups[i].reports, r)
	}
	return groups
}

func sumHours(reports []models.Report) float64 {
	total := 0.0
	for _, r := range reports {
		total += r.DailyHours
	}
	return total
}

func registeredAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func tagIncidents(reports []models.Report) []dto.TaggedIncident {
	out := []dto.TaggedIncident{}
	for _, r := range reports {
		for _, inc := range r.Incidents {
			item := dto.TaggedIncident{
				Tipo:             inc.IncidentType,
				NombreEmpleado:   inc.EmployeeName,
				Administrador:    r.Administrator,
				ClienteOperacion: r.ClientOperation,
				FechaRegistro:    registeredAt(inc.CreatedAt),
			}
			if !inc.EndDate.IsZero() {
				item.FechaFin = inc.EndDate.Format(dto.DateLayout)
			}
			out = append(out, item)
		}
	}
	return out
}

func tagMovements(reports []models.Report) []dto.TaggedMovement {
	out := []dto.TaggedMovement{}
	for _, r := range reports {
		for _, mov := range r.Movements {
			out = append(out, dto.TaggedMovement{
				NombreEmpleado:   mov.EmployeeName,
				Cargo:            mov.Position,
				Estado:           string(mov.MovementType),
				Administrador:    r.Administrator,
				ClienteOperacion: r.ClientOperation,
				FechaRegistro:    registeredAt(mov.CreatedAt),
			})
		}
	}
	return out
}

// tagFacts skips empty facts rather than emitting empty strings.
func tagFacts(reports []models.Report) []dto.TaggedFact {
	out := []dto.TaggedFact{}
	for _, r := range reports {
		if r.RelevantFacts == "" {
			continue
		}
		out = append(out, dto.TaggedFact{
			Hecho:            r.RelevantFacts,
			Administrador:    r.Administrator,
			ClienteOperacion: r.ClientOperation,
			FechaRegistro:    registeredAt(r.CreatedAt),
		})
	}
	return out
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
