package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/models"
)

type analyticsSource interface {
	List(filter models.ReportFilter) ([]models.Report, int, error)
	ReportsByDate(date time.Time) ([]models.Report, error)
	ReportsByRange(start, end time.Time) ([]models.Report, error)
}

// AnalyticsService assembles the dashboard summary from the authoritative
// store.
type AnalyticsService struct {
	source analyticsSource
	cache  viewCache
	ttl    time.Duration
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(source analyticsSource, cache viewCache, ttl time.Duration, loc *time.Location, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnalyticsService{source: source, cache: cache, ttl: ttl, loc: loc, logger: logger, now: time.Now}
}

// Dashboard computes the admin summary cards and chart series.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*dto.AnalyticsResponse, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	key := fmt.Sprintf("analytics:dashboard:%s", today.Format(dto.DateLayout))

	out := &dto.AnalyticsResponse{}
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, out); err == nil {
			return out, nil
		}
	}

	_, total, err := s.source.List(models.ReportFilter{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	todays, err := s.source.ReportsByDate(today)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	monthly, err := s.source.ReportsByRange(monthStart, today)
	if err != nil {
		return nil, err
	}

	admins := map[string]bool{}
	incidentsThisMonth := 0
	totalHours := 0.0
	byOperation := map[string]int{}
	byIncidentType := map[string]int{}
	for _, r := range monthly {
		admins[r.Administrator] = true
		incidentsThisMonth += len(r.Incidents)
		totalHours += r.DailyHours
		byOperation[r.ClientOperation]++
		for _, inc := range r.Incidents {
			byIncidentType[inc.IncidentType]++
		}
	}

	avgHours := 0.0
	if len(monthly) > 0 {
		avgHours = round2(totalHours / float64(len(monthly)))
	}

	week := make([]dto.SeriesPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		reports, err := s.source.ReportsByDate(day)
		if err != nil {
			return nil, err
		}
		week = append(week, dto.SeriesPoint{Label: day.Format(dto.DateLayout), Value: float64(len(reports))})
	}

	*out = dto.AnalyticsResponse{
		TotalReportes:          total,
		ReportesHoy:            len(todays),
		PromedioHorasDiarias:   avgHours,
		TotalIncidenciasMes:    incidentsThisMonth,
		AdministradoresActivos: len(admins),
		Graficos: dto.AnalyticsCharts{
			ReportesPorDia:       week,
			ReportesPorOperacion: toSeries(byOperation),
			IncidenciasPorTipo:   toSeries(byIncidentType),
		},
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
			s.logger.Warn("analytics cache set failed", zap.Error(err))
		}
	}
	return out, nil
}

func toSeries(counts map[string]int) []dto.SeriesPoint {
	out := make([]dto.SeriesPoint, 0, len(counts))
	for label, count := range counts {
		out = append(out, dto.SeriesPoint{Label: label, Value: float64(count)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	return out
}
