package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/config"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
	"github.com/noah-isme/adr-api/pkg/jobs"
)

const repairJobType = "mirror-repair"

type reconcileTabular interface {
	ReportByID(legacyID string) (*models.Report, error)
	ReportsByRange(start, end time.Time) ([]models.Report, error)
}

type reconcileMirror interface {
	CreateGraph(ctx context.Context, report *models.Report) error
	ExistsByLegacyID(ctx context.Context, legacyID string) (bool, error)
	ListLegacyIDsByRange(ctx context.Context, start, end time.Time) ([]string, error)
}

// ReconcileService repairs tabular→relational divergence after mirror
// failures: targeted retries through a worker queue plus a periodic sweep
// that diffs the two stores over a trailing window.
type ReconcileService struct {
	tabular reconcileTabular
	mirror  reconcileMirror
	users   administratorResolver
	metrics *MetricsService
	cfg     config.ReconcilerConfig
	loc     *time.Location
	logger  *zap.Logger

	queue *jobs.Queue
}

// NewReconcileService constructs the reconciler.
func NewReconcileService(tabular reconcileTabular, mirror reconcileMirror, users administratorResolver, metrics *MetricsService, cfg config.ReconcilerConfig, loc *time.Location, logger *zap.Logger) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 15 * time.Minute
	}
	s := &ReconcileService{
		tabular: tabular,
		mirror:  mirror,
		users:   users,
		metrics: metrics,
		cfg:     cfg,
		loc:     loc,
		logger:  logger,
	}
	s.queue = jobs.NewQueue("mirror-repair", s.handleRepair, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
		// A job that burns through its retries is dropped; the next sweep
		// picks the report up again.
		OnExhausted: func(j jobs.Job) {
			s.metrics.RecordRepairAbandoned()
			s.logger.Error("repair abandoned until next sweep", zap.String("report_id", j.Payload))
		},
	})
	metrics.RegisterQueueDepth(func() float64 { return float64(s.queue.Depth()) })
	return s
}

// Start launches the repair workers and the sweep loop.
func (s *ReconcileService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("reconciler disabled")
		return
	}
	s.queue.Start(ctx)
	go s.sweepLoop(ctx)
}

// Stop drains the workers.
func (s *ReconcileService) Stop() {
	if !s.cfg.Enabled {
		return
	}
	s.queue.Stop()
}

// ScheduleRepair enqueues a targeted repair for one report.
func (s *ReconcileService) ScheduleRepair(legacyID string) {
	if !s.cfg.Enabled {
		return
	}
	if err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    repairJobType,
		Payload: legacyID,
	}); err != nil {
		s.logger.Warn("repair enqueue failed", zap.String("report_id", legacyID), zap.Error(err))
	}
}

func (s *ReconcileService) handleRepair(ctx context.Context, job jobs.Job) error {
	return s.repair(ctx, job.Payload)
}

// repair copies one report graph from the workbook into the mirror if it is
// still missing there.
func (s *ReconcileService) repair(ctx context.Context, legacyID string) error {
	exists, err := s.mirror.ExistsByLegacyID(ctx, legacyID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	report, err := s.tabular.ReportByID(legacyID)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			// Deleted from the workbook since; nothing to mirror.
			return nil
		}
		return err
	}

	if user, err := s.users.GetByAdministratorName(ctx, report.Administrator); err == nil {
		report.UserID = &user.ID
	} else {
		s.logger.Warn("repair without owning user",
			zap.String("report_id", legacyID),
			zap.String("administrator", report.Administrator))
	}

	if err := s.mirror.CreateGraph(ctx, report); err != nil {
		return err
	}
	s.metrics.RecordMirrorRepair()
	s.logger.Info("mirror repaired", zap.String("report_id", legacyID))
	return nil
}

func (s *ReconcileService) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Warn("reconcile sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep diffs the last seven days of workbook reports against the mirror and
// schedules repairs for anything missing.
func (s *ReconcileService) Sweep(ctx context.Context) error {
	now := time.Now().In(s.loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	start := end.AddDate(0, 0, -7)

	reports, err := s.tabular.ReportsByRange(start, end)
	if err != nil {
		return err
	}
	mirrored, err := s.mirror.ListLegacyIDsByRange(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(mirrored))
	for _, id := range mirrored {
		known[id] = true
	}

	missing := 0
	for i := range reports {
		if known[reports[i].LegacyID] {
			continue
		}
		missing++
		s.ScheduleRepair(reports[i].LegacyID)
	}
	if missing > 0 {
		s.logger.Info("reconcile sweep scheduled repairs", zap.Int("missing", missing))
	}
	return nil
}
