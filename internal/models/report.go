package models

import "time"

// ReportStatus represents the lifecycle state of a daily report.
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusArchived  ReportStatus = "archived"
)

// MovementType distinguishes personnel entries from exits. The wire values are
// the legacy Spanish ones and must stay stable.
type MovementType string

const (
	MovementIngreso MovementType = "Ingreso"
	MovementRetiro  MovementType = "Retiro"
)

// LegacyReportStatus is the status string written to the workbook for a
// submitted report.
const LegacyReportStatus = "Completado"

// Report is one daily submission by one administrator for one operation.
// ReportDate is immutable after creation and drives mutation eligibility.
type Report struct {
	ID              string       `db:"id" json:"id"`
	LegacyID        string       `db:"legacy_id" json:"legacy_id"`
	UserID          *string      `db:"user_id" json:"user_id,omitempty"`
	Administrator   string       `db:"administrator" json:"administrator"`
	ClientOperation string       `db:"client_operation" json:"client_operation"`
	DailyHours      float64      `db:"daily_hours" json:"daily_hours"`
	StaffPersonnel  int          `db:"staff_personnel" json:"staff_personnel"`
	BasePersonnel   int          `db:"base_personnel" json:"base_personnel"`
	RelevantFacts   string       `db:"relevant_facts" json:"relevant_facts"`
	Status          ReportStatus `db:"status" json:"status"`
	ReportDate      time.Time    `db:"report_date" json:"report_date"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
	ClientIP        string       `db:"client_ip" json:"-"`
	UserAgent       string       `db:"user_agent" json:"-"`

	Incidents []Incident `db:"-" json:"incidents"`
	Movements []Movement `db:"-" json:"movements"`
}

// Incident is one personnel event (leave, incapacity, ...) owned by a report.
type Incident struct {
	ID           string    `db:"id" json:"id"`
	ReportID     string    `db:"report_id" json:"report_id"`
	IncidentType string    `db:"incident_type" json:"incident_type"`
	EmployeeName string    `db:"employee_name" json:"employee_name"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	Notes        string    `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Movement is one personnel entry/exit event owned by a report.
type Movement struct {
	ID            string       `db:"id" json:"id"`
	ReportID      string       `db:"report_id" json:"report_id"`
	EmployeeName  string       `db:"employee_name" json:"employee_name"`
	Position      string       `db:"position" json:"position"`
	MovementType  MovementType `db:"movement_type" json:"movement_type"`
	EffectiveDate *time.Time   `db:"effective_date" json:"effective_date,omitempty"`
	Notes         string       `db:"notes" json:"notes"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}

// ReportFilter captures the admin list filters.
type ReportFilter struct {
	Administrator string
	Operation     string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}

// ReportUpdate carries the partial field set permitted on same-day edits.
// Nil means "leave unchanged"; a non-nil child slice replaces the whole set.
type ReportUpdate struct {
	DailyHours     *float64
	StaffPersonnel *int
	BasePersonnel  *int
	RelevantFacts  *string
	Incidents      []Incident
	Movements      []Movement
}

// Empty reports whether the update would change nothing.
func (u ReportUpdate) Empty() bool {
	return u.DailyHours == nil && u.StaffPersonnel == nil && u.BasePersonnel == nil &&
		u.RelevantFacts == nil && u.Incidents == nil && u.Movements == nil
}
