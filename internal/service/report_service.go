package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/excel"
	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/config"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
)

type tabularStore interface {
	SaveReport(r *models.Report) error
	ReportByID(legacyID string) (*models.Report, error)
	List(filter models.ReportFilter) ([]models.Report, int, error)
	UpdateReport(legacyID string, upd models.ReportUpdate) (*models.Report, error)
	DeleteReport(legacyID string) error
	CountByAdminAndDate(administrator string, date time.Time) (int, error)
}

type mirrorStore interface {
	CreateGraph(ctx context.Context, report *models.Report) error
	UpdateByLegacyID(ctx context.Context, legacyID string, upd models.ReportUpdate) error
	DeleteByLegacyID(ctx context.Context, legacyID string) (bool, error)
}

type administratorResolver interface {
	GetByAdministratorName(ctx context.Context, name string) (*models.User, error)
}

type auditTrail interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type mirrorRepairScheduler interface {
	ScheduleRepair(legacyID string)
}

// ClientMeta carries request attribution recorded alongside mutations.
type ClientMeta struct {
	UserID    *string
	ClientIP  string
	UserAgent string
}

// ReportService coordinates the dual-write of report graphs: the workbook
// write is authoritative, the relational mirror is best effort.
type ReportService struct {
	tabular    tabularStore
	mirror     mirrorStore
	users      administratorResolver
	audit      auditTrail
	cache      cacheInvalidator
	reconciler mirrorRepairScheduler
	metrics    *MetricsService
	catalog    config.CatalogConfig
	cfg        config.ReportsConfig
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService constructs the coordinator.
func NewReportService(
	tabular tabularStore,
	mirror mirrorStore,
	users administratorResolver,
	audit auditTrail,
	cache cacheInvalidator,
	reconciler mirrorRepairScheduler,
	metrics *MetricsService,
	catalog config.CatalogConfig,
	cfg config.ReportsConfig,
	loc *time.Location,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxPerAdminPerDay <= 0 {
		cfg.MaxPerAdminPerDay = 1
	}
	if cfg.MaxIncidentsPerReport <= 0 {
		cfg.MaxIncidentsPerReport = 50
	}
	if cfg.MaxMovementsPerReport <= 0 {
		cfg.MaxMovementsPerReport = 50
	}
	return &ReportService{
		tabular:    tabular,
		mirror:     mirror,
		users:      users,
		audit:      audit,
		cache:      cache,
		reconciler: reconciler,
		metrics:    metrics,
		catalog:    catalog,
		cfg:        cfg,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ReportService) localNow() time.Time {
	return s.now().In(s.loc)
}

func (s *ReportService) today() time.Time {
	y, m, d := s.localNow().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func inCatalog(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}

func (s *ReportService) validateSubmission(req dto.CreateReportRequest) error {
	if !inCatalog(s.catalog.Administrators, req.Administrador) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown administrator %q", req.Administrador))
	}
	if !inCatalog(s.catalog.Operations, req.ClienteOperacion) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown operation %q", req.ClienteOperacion))
	}
	if len(req.Incidencias) > s.cfg.MaxIncidentsPerReport {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d incidents per report", s.cfg.MaxIncidentsPerReport))
	}
	if len(req.IngresosRetiros) > s.cfg.MaxMovementsPerReport {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d movements per report", s.cfg.MaxMovementsPerReport))
	}
	today := s.today()
	for _, inc := range req.Incidencias {
		if !inCatalog(s.catalog.IncidentTypes, inc.Tipo) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown incident type %q", inc.Tipo))
		}
		end, err := time.ParseInLocation(dto.DateLayout, inc.FechaFin, s.loc)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid incident end date %q", inc.FechaFin))
		}
		if end.Before(today) {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("incident end date %s is in the past", inc.FechaFin))
		}
	}
	return nil
}

// Submit runs the dual-write: validate, count the administrator's same-day
// submissions, write the workbook graph, then best-effort mirror it.
func (s *ReportService) Submit(ctx context.Context, req dto.CreateReportRequest, meta ClientMeta) (*dto.ReportCreatedData, error) {
	if err := s.validateSubmission(req); err != nil {
		return nil, err
	}

	today := s.today()
	existing, err := s.tabular.CountByAdminAndDate(req.Administrador, today)
	if err != nil {
		s.logger.Error("count same-day reports failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "report submission failed")
	}
	if s.cfg.EnforceDailyLimit && existing >= s.cfg.MaxPerAdminPerDay {
		return nil, appErrors.Clone(appErrors.ErrDailyLimitReached,
			fmt.Sprintf("administrator %s already submitted %d report(s) today", req.Administrador, existing))
	}

	report := &models.Report{
		Administrator:   req.Administrador,
		ClientOperation: req.ClienteOperacion,
		DailyHours:      req.HorasDiarias,
		StaffPersonnel:  req.PersonalStaff,
		BasePersonnel:   req.PersonalBase,
		RelevantFacts:   req.HechosRelevantes,
		Status:          models.ReportStatusCompleted,
		ReportDate:      today,
		CreatedAt:       s.localNow(),
		ClientIP:        meta.ClientIP,
		UserAgent:       meta.UserAgent,
		Incidents:       dto.ToIncidentModels(req.Incidencias),
		Movements:       dto.ToMovementModels(req.IngresosRetiros),
	}

	if err := s.tabular.SaveReport(report); err != nil {
		s.logger.Error("workbook write failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "report submission failed")
	}

	s.mirrorCreate(ctx, report)
	s.metrics.RecordReportMutation("create")
	s.recordAudit(ctx, meta, models.AuditActionReportCreate, report.LegacyID)
	s.invalidateViews(ctx)

	data := &dto.ReportCreatedData{
		ID:            report.LegacyID,
		FechaCreacion: report.CreatedAt,
		ReportesHoy:   existing + 1,
	}
	if !s.cfg.EnforceDailyLimit && existing >= s.cfg.MaxPerAdminPerDay {
		data.Mensaje = fmt.Sprintf("this is report %d of the day for %s", existing+1, req.Administrador)
	}
	return data, nil
}

// mirrorCreate attempts the relational copy. Failure never propagates: it is
// logged and handed to the reconciler.
func (s *ReportService) mirrorCreate(ctx context.Context, report *models.Report) {
	user, err := s.users.GetByAdministratorName(ctx, report.Administrator)
	if err != nil {
		// A report whose administrator has no linked account is never
		// mirrored; a failed lookup means the mirror may still be owed one.
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			s.logger.Warn("mirror skipped: no user for administrator",
				zap.String("administrator", report.Administrator),
				zap.String("report_id", report.LegacyID))
			return
		}
		s.logger.Warn("mirror deferred: administrator lookup failed",
			zap.String("report_id", report.LegacyID),
			zap.Error(err))
		s.metrics.RecordMirrorFailure()
		if s.reconciler != nil {
			s.reconciler.ScheduleRepair(report.LegacyID)
		}
		return
	}
	report.UserID = &user.ID

	if err := s.mirror.CreateGraph(ctx, report); err != nil {
		s.logger.Warn("mirror write failed",
			zap.String("report_id", report.LegacyID),
			zap.Error(err))
		s.metrics.RecordMirrorFailure()
		if s.reconciler != nil {
			s.reconciler.ScheduleRepair(report.LegacyID)
		}
	}
}

// Get fetches one report graph from the authoritative store.
func (s *ReportService) Get(ctx context.Context, legacyID string) (*dto.ReportResponse, error) {
	report, err := s.tabular.ReportByID(legacyID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromReport(report)
	return &resp, nil
}

// List returns a filtered page of reports.
func (s *ReportService) List(ctx context.Context, q dto.ReportListQuery) ([]dto.ReportResponse, *models.Pagination, error) {
	filter := models.ReportFilter{
		Administrator: q.Administrador,
		Operation:     q.Cliente,
		Page:          q.Page,
		PageSize:      q.Limit,
	}
	if q.FechaInicio != "" {
		d, err := time.ParseInLocation(dto.DateLayout, q.FechaInicio, s.loc)
		if err == nil {
			filter.StartDate = &d
		}
	}
	if q.FechaFin != "" {
		d, err := time.ParseInLocation(dto.DateLayout, q.FechaFin, s.loc)
		if err == nil {
			filter.EndDate = &d
		}
	}

	reports, total, err := s.tabular.List(filter)
	if err != nil {
		return nil, nil, err
	}
	out := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, dto.FromReport(&reports[i]))
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	}
	return out, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// guardMutation rejects updates and deletes unless the report's date matches
// the caller's current local date. The reason names the report's actual date.
func (s *ReportService) guardMutation(reportDate time.Time) error {
	ry, rm, rd := reportDate.In(s.loc).Date()
	ty, tm, td := s.localNow().Date()
	if ry == ty && rm == tm && rd == td {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbiddenMutation,
		fmt.Sprintf("report dated %04d-%02d-%02d can only be modified on that same day", ry, rm, rd))
}

// Update applies a same-day partial edit to both stores.
func (s *ReportService) Update(ctx context.Context, legacyID string, req dto.UpdateReportRequest, meta ClientMeta) (*dto.ReportResponse, error) {
	current, err := s.tabular.ReportByID(legacyID)
	if err != nil {
		return nil, err
	}
	if err := s.guardMutation(current.ReportDate); err != nil {
		return nil, err
	}

	upd := models.ReportUpdate{
		DailyHours:     req.HorasDiarias,
		StaffPersonnel: req.PersonalStaff,
		BasePersonnel:  req.PersonalBase,
		RelevantFacts:  req.HechosRelevantes,
	}
	if req.Incidencias != nil {
		if len(req.Incidencias) > s.cfg.MaxIncidentsPerReport {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d incidents per report", s.cfg.MaxIncidentsPerReport))
		}
		for _, inc := range req.Incidencias {
			if !inCatalog(s.catalog.IncidentTypes, inc.Tipo) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown incident type %q", inc.Tipo))
			}
		}
		upd.Incidents = dto.ToIncidentModels(req.Incidencias)
	}
	if req.IngresosRetiros != nil {
		if len(req.IngresosRetiros) > s.cfg.MaxMovementsPerReport {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d movements per report", s.cfg.MaxMovementsPerReport))
		}
		upd.Movements = dto.ToMovementModels(req.IngresosRetiros)
	}

	updated, err := s.tabular.UpdateReport(legacyID, upd)
	if err != nil {
		return nil, err
	}

	if err := s.mirror.UpdateByLegacyID(ctx, legacyID, upd); err != nil {
		s.logger.Warn("mirror update failed",
			zap.String("report_id", legacyID),
			zap.Error(err))
		s.metrics.RecordMirrorFailure()
		if s.reconciler != nil {
			s.reconciler.ScheduleRepair(legacyID)
		}
	}

	s.metrics.RecordReportMutation("update")
	s.recordAudit(ctx, meta, models.AuditActionReportUpdate, legacyID)
	s.invalidateViews(ctx)

	resp := dto.FromReport(updated)
	return &resp, nil
}

// Delete removes the report from both stores. The mirror is tried first since
// its foreign keys cascade; removal from at least one store counts as success.
func (s *ReportService) Delete(ctx context.Context, legacyID string, meta ClientMeta) error {
	if reportDate, ok := excel.ReportDateFromID(legacyID, s.loc); ok {
		if err := s.guardMutation(reportDate); err != nil {
			return err
		}
	}

	mirrorFound, err := s.mirror.DeleteByLegacyID(ctx, legacyID)
	if err != nil {
		s.logger.Warn("mirror delete failed", zap.String("report_id", legacyID), zap.Error(err))
		mirrorFound = false
	}

	tabularFound := true
	if err := s.tabular.DeleteReport(legacyID); err != nil {
		if appErrors.FromError(err).Code != appErrors.ErrNotFound.Code {
			s.logger.Error("workbook delete failed", zap.String("report_id", legacyID), zap.Error(err))
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "report deletion failed")
		}
		tabularFound = false
	}

	if !mirrorFound && !tabularFound {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("report %s not found", legacyID))
	}

	s.metrics.RecordReportMutation("delete")
	s.recordAudit(ctx, meta, models.AuditActionReportDelete, legacyID)
	s.invalidateViews(ctx)
	return nil
}

func (s *ReportService) recordAudit(ctx context.Context, meta ClientMeta, action, resourceID string) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:       meta.UserID,
		Action:       action,
		ResourceType: "report",
		ResourceID:   &resourceID,
		ClientIP:     meta.ClientIP,
		UserAgent:    meta.UserAgent,
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.logger.Warn("audit insert failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *ReportService) invalidateViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "consolidated:*"); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.DeleteByPattern(ctx, "analytics:*"); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}
