package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/config"
	"github.com/noah-isme/adr-api/pkg/crypto"
	"github.com/noah-isme/adr-api/pkg/errors"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
	idPrefix        = "RPT"
	idDateLayout    = "20060102"
)

// Store is the workbook-backed authoritative store. Every operation performs a
// full load-modify-save under a single-writer mutex; the workbook offers no
// finer-grained consistency than that.
type Store struct {
	mu         sync.Mutex
	path       string
	backupDir  string
	maxBackups int
	loc        *time.Location
	gate       *crypto.FieldGate
	log        *zap.Logger
}

// NewStore opens (or bootstraps) the workbook and validates its layout.
func NewStore(cfg config.ExcelConfig, loc *time.Location, gate *crypto.FieldGate, log *zap.Logger) (*Store, error) {
	s := &Store{
		path:       cfg.FilePath,
		backupDir:  cfg.BackupDir,
		maxBackups: cfg.MaxBackups,
		loc:        loc,
		gate:       gate,
		log:        log,
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("excel: create data dir: %w", err)
	}
	if cfg.BackupDir != "" {
		if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
			return nil, fmt.Errorf("excel: create backup dir: %w", err)
		}
	}

	if _, err := os.Stat(cfg.FilePath); os.IsNotExist(err) {
		if err := s.bootstrap(); err != nil {
			return nil, err
		}
		log.Info("workbook created", zap.String("path", cfg.FilePath))
		return s, nil
	}

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := s.validate(f); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the workbook location on disk.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("excel: open workbook: %w", err)
	}
	return f, nil
}

func (s *Store) bootstrap() error {
	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range []string{SheetReports, SheetIncidents, SheetMovements, SheetConfiguration} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("excel: create sheet %s: %w", sheet, err)
		}
		for i, col := range schema[sheet] {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, col); err != nil {
				return err
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("excel: drop default sheet: %w", err)
	}
	return f.SaveAs(s.path)
}

func (s *Store) validate(f *excelize.File) error {
	for _, sheet := range []string{SheetReports, SheetIncidents, SheetMovements, SheetConfiguration} {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("excel: read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("excel: sheet %s has no header row", sheet)
		}
		if err := validateHeaders(sheet, rows[0]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// rewriteSheet replaces a sheet's whole content with the header plus rows.
func (s *Store) rewriteSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if err := f.DeleteSheet(sheet); err != nil {
		return fmt.Errorf("excel: drop sheet %s: %w", sheet, err)
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("excel: recreate sheet %s: %w", sheet, err)
	}
	header := make([]interface{}, len(schema[sheet]))
	for i, col := range schema[sheet] {
		header[i] = col
	}
	if err := s.writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := s.writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// backup copies the workbook aside before a destructive operation and prunes
// old copies beyond the retention cap.
func (s *Store) backup() {
	if s.backupDir == "" {
		return
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Warn("workbook backup read failed", zap.Error(err))
		return
	}
	name := fmt.Sprintf("reportes_%s.xlsx", time.Now().In(s.loc).Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(s.backupDir, name), data, 0o644); err != nil {
		s.log.Warn("workbook backup write failed", zap.Error(err))
		return
	}
	s.pruneBackups()
}

func (s *Store) pruneBackups() {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "reportes_") {
			names = append(names, e.Name())
		}
	}
	if s.maxBackups <= 0 || len(names) <= s.maxBackups {
		return
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-s.maxBackups] {
		_ = os.Remove(filepath.Join(s.backupDir, name))
	}
}

// nextReportID derives the day-scoped sequence identifier from a live count of
// rows already stored for the report date. The counter is never persisted.
func (s *Store) nextReportID(f *excelize.File, reportDate time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", idPrefix, reportDate.Format(idDateLayout))
	rows, err := f.GetRows(SheetReports)
	if err != nil {
		return "", fmt.Errorf("excel: count reports: %w", err)
	}
	count := 0
	for _, row := range rows[1:] {
		if len(row) > colReportID && strings.HasPrefix(row[colReportID], prefix) {
			count++
		}
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

// ReportDateFromID extracts the calendar date embedded in a legacy identifier.
func ReportDateFromID(id string, loc *time.Location) (time.Time, bool) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 || parts[0] != idPrefix {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(idDateLayout, parts[1], loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (s *Store) parseTime(raw string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339, "2006-01-02T15:04:05", dateLayout, "01-02-06 15:04", "1/2/06 15:04"} {
		if t, err := time.ParseInLocation(layout, raw, s.loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func atoi(raw string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(raw))
	return n
}

func atof(raw string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return v
}

func (s *Store) parseReport(row []string) models.Report {
	r := models.Report{
		LegacyID:        cell(row, colReportID),
		Administrator:   cell(row, colReportAdministrator),
		ClientOperation: cell(row, colReportOperation),
		DailyHours:      atof(cell(row, colReportDailyHours)),
		StaffPersonnel:  atoi(cell(row, colReportStaff)),
		BasePersonnel:   atoi(cell(row, colReportBase)),
		RelevantFacts:   s.gate.RevealValue(crypto.TableReports, "relevant_facts", cell(row, colReportRelevantFacts)),
		Status:          models.ReportStatusCompleted,
		CreatedAt:       s.parseTime(cell(row, colReportCreatedAt)),
		ClientIP:        cell(row, colReportClientIP),
		UserAgent:       cell(row, colReportUserAgent),
	}
	if d, ok := ReportDateFromID(r.LegacyID, s.loc); ok {
		r.ReportDate = d
	} else if !r.CreatedAt.IsZero() {
		y, m, d := r.CreatedAt.In(s.loc).Date()
		r.ReportDate = time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	}
	return r
}

func (s *Store) reportRow(r *models.Report) ([]interface{}, error) {
	facts, err := s.gate.ProtectValue(crypto.TableReports, "relevant_facts", r.RelevantFacts)
	if err != nil {
		return nil, fmt.Errorf("excel: protect relevant_facts: %w", err)
	}
	return []interface{}{
		r.LegacyID,
		r.CreatedAt.In(s.loc).Format(timestampLayout),
		r.Administrator,
		r.ClientOperation,
		r.DailyHours,
		r.StaffPersonnel,
		r.BasePersonnel,
		len(r.Incidents),
		len(r.Movements),
		facts,
		models.LegacyReportStatus,
		r.ClientIP,
		r.UserAgent,
	}, nil
}

func (s *Store) incidentRow(reportID string, num int, inc models.Incident, at time.Time) ([]interface{}, error) {
	name, err := s.gate.ProtectValue(crypto.TableIncidents, "employee_name", inc.EmployeeName)
	if err != nil {
		return nil, fmt.Errorf("excel: protect employee_name: %w", err)
	}
	notes, err := s.gate.ProtectValue(crypto.TableIncidents, "notes", inc.Notes)
	if err != nil {
		return nil, fmt.Errorf("excel: protect notes: %w", err)
	}
	endDate := ""
	if !inc.EndDate.IsZero() {
		endDate = inc.EndDate.Format(dateLayout)
	}
	return []interface{}{
		reportID, num, inc.IncidentType, name, endDate, notes,
		at.In(s.loc).Format(timestampLayout),
	}, nil
}

func (s *Store) movementRow(reportID string, num int, mov models.Movement, at time.Time) ([]interface{}, error) {
	name, err := s.gate.ProtectValue(crypto.TableMovements, "employee_name", mov.EmployeeName)
	if err != nil {
		return nil, fmt.Errorf("excel: protect employee_name: %w", err)
	}
	notes, err := s.gate.ProtectValue(crypto.TableMovements, "notes", mov.Notes)
	if err != nil {
		return nil, fmt.Errorf("excel: protect notes: %w", err)
	}
	effective := ""
	if mov.EffectiveDate != nil {
		effective = mov.EffectiveDate.Format(dateLayout)
	}
	return []interface{}{
		reportID, num, name, mov.Position, string(mov.MovementType), effective, notes,
		at.In(s.loc).Format(timestampLayout),
	}, nil
}

func (s *Store) parseIncident(row []string) models.Incident {
	inc := models.Incident{
		ReportID:     cell(row, colIncidentReportID),
		ID:           cell(row, colIncidentNumber),
		IncidentType: cell(row, colIncidentType),
		EmployeeName: s.gate.RevealValue(crypto.TableIncidents, "employee_name", cell(row, colIncidentEmployee)),
		Notes:        s.gate.RevealValue(crypto.TableIncidents, "notes", cell(row, colIncidentNotes)),
		CreatedAt:    s.parseTime(cell(row, colIncidentCreatedAt)),
	}
	if raw := cell(row, colIncidentEndDate); raw != "" {
		inc.EndDate = s.parseTime(raw)
	}
	return inc
}

func (s *Store) parseMovement(row []string) models.Movement {
	mov := models.Movement{
		ReportID:     cell(row, colMovementReportID),
		ID:           cell(row, colMovementNumber),
		EmployeeName: s.gate.RevealValue(crypto.TableMovements, "employee_name", cell(row, colMovementEmployee)),
		Position:     cell(row, colMovementPosition),
		MovementType: models.MovementType(cell(row, colMovementType)),
		Notes:        s.gate.RevealValue(crypto.TableMovements, "notes", cell(row, colMovementNotes)),
		CreatedAt:    s.parseTime(cell(row, colMovementCreatedAt)),
	}
	if raw := cell(row, colMovementEffectiveDate); raw != "" {
		d := s.parseTime(raw)
		if !d.IsZero() {
			mov.EffectiveDate = &d
		}
	}
	return mov
}

func (s *Store) loadIncidents(f *excelize.File) (map[string][]models.Incident, error) {
	rows, err := f.GetRows(SheetIncidents)
	if err != nil {
		return nil, fmt.Errorf("excel: read incidents: %w", err)
	}
	out := make(map[string][]models.Incident)
	for _, row := range rows[1:] {
		inc := s.parseIncident(row)
		if inc.ReportID == "" {
			continue
		}
		out[inc.ReportID] = append(out[inc.ReportID], inc)
	}
	return out, nil
}

func (s *Store) loadMovements(f *excelize.File) (map[string][]models.Movement, error) {
	rows, err := f.GetRows(SheetMovements)
	if err != nil {
		return nil, fmt.Errorf("excel: read movements: %w", err)
	}
	out := make(map[string][]models.Movement)
	for _, row := range rows[1:] {
		mov := s.parseMovement(row)
		if mov.ReportID == "" {
			continue
		}
		out[mov.ReportID] = append(out[mov.ReportID], mov)
	}
	return out, nil
}

func (s *Store) loadReports(f *excelize.File) ([]models.Report, error) {
	rows, err := f.GetRows(SheetReports)
	if err != nil {
		return nil, fmt.Errorf("excel: read reports: %w", err)
	}
	reports := make([]models.Report, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := s.parseReport(row)
		if r.LegacyID == "" {
			continue
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func (s *Store) loadGraph(f *excelize.File) ([]models.Report, error) {
	reports, err := s.loadReports(f)
	if err != nil {
		return nil, err
	}
	incidents, err := s.loadIncidents(f)
	if err != nil {
		return nil, err
	}
	movements, err := s.loadMovements(f)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		reports[i].Incidents = incidents[reports[i].LegacyID]
		reports[i].Movements = movements[reports[i].LegacyID]
		if reports[i].Incidents == nil {
			reports[i].Incidents = []models.Incident{}
		}
		if reports[i].Movements == nil {
			reports[i].Movements = []models.Movement{}
		}
	}
	return reports, nil
}

// SaveReport assigns the day-scoped identifier and appends the full record
// graph. The identifier is counted and written under the same lock so two
// submissions cannot observe the same count.
func (s *Store) SaveReport(r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	id, err := s.nextReportID(f, r.ReportDate)
	if err != nil {
		return err
	}
	r.LegacyID = id
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().In(s.loc)
	}

	row, err := s.reportRow(r)
	if err != nil {
		return err
	}
	reportRows, err := f.GetRows(SheetReports)
	if err != nil {
		return fmt.Errorf("excel: read reports: %w", err)
	}
	if err := s.writeRow(f, SheetReports, len(reportRows)+1, row); err != nil {
		return err
	}

	incRows, err := f.GetRows(SheetIncidents)
	if err != nil {
		return fmt.Errorf("excel: read incidents: %w", err)
	}
	for i, inc := range r.Incidents {
		values, err := s.incidentRow(id, i+1, inc, r.CreatedAt)
		if err != nil {
			return err
		}
		if err := s.writeRow(f, SheetIncidents, len(incRows)+1+i, values); err != nil {
			return err
		}
	}

	movRows, err := f.GetRows(SheetMovements)
	if err != nil {
		return fmt.Errorf("excel: read movements: %w", err)
	}
	for i, mov := range r.Movements {
		values, err := s.movementRow(id, i+1, mov, r.CreatedAt)
		if err != nil {
			return err
		}
		if err := s.writeRow(f, SheetMovements, len(movRows)+1+i, values); err != nil {
			return err
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("excel: save workbook: %w", err)
	}
	return nil
}

// CountByDate returns how many reports exist for the calendar date.
func (s *Store) CountByDate(date time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	prefix := fmt.Sprintf("%s-%s-", idPrefix, date.Format(idDateLayout))
	rows, err := f.GetRows(SheetReports)
	if err != nil {
		return 0, fmt.Errorf("excel: read reports: %w", err)
	}
	count := 0
	for _, row := range rows[1:] {
		if strings.HasPrefix(cell(row, colReportID), prefix) {
			count++
		}
	}
	return count, nil
}

// CountByAdminAndDate returns the administrator's submissions for the date.
func (s *Store) CountByAdminAndDate(administrator string, date time.Time) (int, error) {
	reports, err := s.ReportsByDate(date)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range reports {
		if r.Administrator == administrator {
			count++
		}
	}
	return count, nil
}

// ReportsByDate returns the full graphs for every report on the date.
func (s *Store) ReportsByDate(date time.Time) ([]models.Report, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
	return s.ReportsByRange(start, start)
}

// ReportsByRange returns the full graphs for every report whose report date
// falls inside the inclusive range.
func (s *Store) ReportsByRange(start, end time.Time) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reports, err := s.loadGraph(f)
	if err != nil {
		return nil, err
	}

	lo := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)
	hi := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)

	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if !r.ReportDate.Before(lo) && r.ReportDate.Before(hi) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ReportByID fetches one report graph by its legacy identifier.
func (s *Store) ReportByID(legacyID string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.findReport(f, legacyID)
}

func (s *Store) findReport(f *excelize.File, legacyID string) (*models.Report, error) {
	reports, err := s.loadGraph(f)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		if reports[i].LegacyID == legacyID {
			return &reports[i], nil
		}
	}
	return nil, errors.Clone(errors.ErrNotFound, fmt.Sprintf("report %s not found", legacyID))
}

// List returns a filtered, newest-first page of report graphs plus the total
// match count.
func (s *Store) List(filter models.ReportFilter) ([]models.Report, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	reports, err := s.loadGraph(f)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if filter.Administrator != "" && r.Administrator != filter.Administrator {
			continue
		}
		if filter.Operation != "" && r.ClientOperation != filter.Operation {
			continue
		}
		if filter.StartDate != nil && r.ReportDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && r.ReportDate.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, r)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	}
	lo := (page - 1) * size
	if lo >= total {
		return []models.Report{}, total, nil
	}
	hi := lo + size
	if hi > total {
		hi = total
	}
	return matched[lo:hi], total, nil
}

// UpdateReport applies a partial update. A supplied child list replaces the
// report's whole set of that kind.
func (s *Store) UpdateReport(legacyID string, upd models.ReportUpdate) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	current, err := s.findReport(f, legacyID)
	if err != nil {
		return nil, err
	}

	s.backup()

	if upd.DailyHours != nil {
		current.DailyHours = *upd.DailyHours
	}
	if upd.StaffPersonnel != nil {
		current.StaffPersonnel = *upd.StaffPersonnel
	}
	if upd.BasePersonnel != nil {
		current.BasePersonnel = *upd.BasePersonnel
	}
	if upd.RelevantFacts != nil {
		current.RelevantFacts = *upd.RelevantFacts
	}
	if upd.Incidents != nil {
		current.Incidents = upd.Incidents
		if err := s.replaceChildren(f, SheetIncidents, legacyID, len(upd.Incidents), func(i int) ([]interface{}, error) {
			return s.incidentRow(legacyID, i+1, upd.Incidents[i], time.Now().In(s.loc))
		}); err != nil {
			return nil, err
		}
	}
	if upd.Movements != nil {
		current.Movements = upd.Movements
		if err := s.replaceChildren(f, SheetMovements, legacyID, len(upd.Movements), func(i int) ([]interface{}, error) {
			return s.movementRow(legacyID, i+1, upd.Movements[i], time.Now().In(s.loc))
		}); err != nil {
			return nil, err
		}
	}

	current.UpdatedAt = time.Now().In(s.loc)
	if err := s.rewriteReportRow(f, current); err != nil {
		return nil, err
	}

	if err := f.Save(); err != nil {
		return nil, fmt.Errorf("excel: save workbook: %w", err)
	}
	return current, nil
}

// replaceChildren drops every existing child row for the report and appends
// the new set, renumbered from 1.
func (s *Store) replaceChildren(f *excelize.File, sheet, legacyID string, count int, build func(int) ([]interface{}, error)) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("excel: read %s: %w", sheet, err)
	}
	kept := make([][]interface{}, 0, len(rows))
	for _, row := range rows[1:] {
		if cell(row, 0) == legacyID {
			continue
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		kept = append(kept, values)
	}
	for i := 0; i < count; i++ {
		values, err := build(i)
		if err != nil {
			return err
		}
		kept = append(kept, values)
	}
	return s.rewriteSheet(f, sheet, kept)
}

func (s *Store) rewriteReportRow(f *excelize.File, r *models.Report) error {
	rows, err := f.GetRows(SheetReports)
	if err != nil {
		return fmt.Errorf("excel: read reports: %w", err)
	}
	for i, row := range rows[1:] {
		if cell(row, colReportID) != r.LegacyID {
			continue
		}
		values, err := s.reportRow(r)
		if err != nil {
			return err
		}
		return s.writeRow(f, SheetReports, i+2, values)
	}
	return errors.Clone(errors.ErrNotFound, fmt.Sprintf("report %s not found", r.LegacyID))
}

// DeleteReport removes the report row and cascades over its children.
func (s *Store) DeleteReport(legacyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetReports)
	if err != nil {
		return fmt.Errorf("excel: read reports: %w", err)
	}
	found := false
	kept := make([][]interface{}, 0, len(rows))
	for _, row := range rows[1:] {
		if cell(row, colReportID) == legacyID {
			found = true
			continue
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		kept = append(kept, values)
	}
	if !found {
		return errors.Clone(errors.ErrNotFound, fmt.Sprintf("report %s not found", legacyID))
	}

	s.backup()

	if err := s.rewriteSheet(f, SheetReports, kept); err != nil {
		return err
	}
	for _, sheet := range []string{SheetIncidents, SheetMovements} {
		if err := s.replaceChildren(f, sheet, legacyID, 0, nil); err != nil {
			return err
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("excel: save workbook: %w", err)
	}
	return nil
}

// Configurations lists every parameter in the Configuracion sheet.
func (s *Store) Configurations() ([]models.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetConfiguration)
	if err != nil {
		return nil, fmt.Errorf("excel: read configuration: %w", err)
	}
	out := make([]models.Configuration, 0, len(rows)-1)
	for _, row := range rows[1:] {
		key := cell(row, colConfigKey)
		if key == "" {
			continue
		}
		out = append(out, models.Configuration{
			Key:         key,
			Value:       cell(row, colConfigValue),
			Description: cell(row, colConfigDescription),
			UpdatedAt:   s.parseTime(cell(row, colConfigUpdatedAt)),
		})
	}
	return out, nil
}

// SetConfiguration upserts one parameter. Last write wins on key collision.
func (s *Store) SetConfiguration(key, value, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetConfiguration)
	if err != nil {
		return fmt.Errorf("excel: read configuration: %w", err)
	}
	values := []interface{}{key, value, description, time.Now().In(s.loc).Format(timestampLayout)}
	target := len(rows) + 1
	for i, row := range rows[1:] {
		if cell(row, colConfigKey) == key {
			target = i + 2
			break
		}
	}
	if err := s.writeRow(f, SheetConfiguration, target, values); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("excel: save workbook: %w", err)
	}
	return nil
}
