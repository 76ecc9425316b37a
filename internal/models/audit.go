package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
	AuditActionReportCreate   = "REPORT_CREATE"
	AuditActionReportUpdate   = "REPORT_UPDATE"
	AuditActionReportDelete   = "REPORT_DELETE"
	AuditActionHTTPMutation   = "HTTP_MUTATION"
)

// AuditLog represents an append-only audit trail record. Rows are never
// updated or deleted.
type AuditLog struct {
	ID           string    `db:"id" json:"id"`
	UserID       *string   `db:"user_id" json:"user_id,omitempty"`
	Action       string    `db:"action" json:"action"`
	ResourceType string    `db:"resource_type" json:"resource_type"`
	ResourceID   *string   `db:"resource_id" json:"resource_id,omitempty"`
	Details      string    `db:"details" json:"details,omitempty"`
	ClientIP     string    `db:"client_ip" json:"client_ip"`
	UserAgent    string    `db:"user_agent" json:"user_agent"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
