package crypto

import (
	"go.uber.org/zap"
)

// Table names understood by the gate.
const (
	TableReports   = "reports"
	TableIncidents = "incidents"
	TableMovements = "movements"
	TableUsers     = "users"
	TableAuditLogs = "audit_logs"
)

// sensitiveFields declares, per table, which fields are protected at rest.
var sensitiveFields = map[string][]string{
	TableReports:   {"relevant_facts"},
	TableIncidents: {"employee_name", "notes"},
	TableMovements: {"employee_name", "notes"},
	TableUsers:     {"email", "full_name", "administrator_name"},
	TableAuditLogs: {"details"},
}

// FieldGate wraps the cipher with per-table field policy. Both stores route
// their sensitive columns through it on write and read.
type FieldGate struct {
	cipher *Cipher
	logger *zap.Logger
}

// NewFieldGate constructs the gate.
func NewFieldGate(cipher *Cipher, logger *zap.Logger) *FieldGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldGate{cipher: cipher, logger: logger}
}

// IsSensitive reports whether the table declares the field as protected.
func (g *FieldGate) IsSensitive(table, field string) bool {
	for _, f := range sensitiveFields[table] {
		if f == field {
			return true
		}
	}
	return false
}

// ProtectValue encrypts the value when the field is sensitive. Encryption of a
// sensitive field must not fail silently: an error propagates so the write is
// aborted before anything half-protected is persisted.
func (g *FieldGate) ProtectValue(table, field, value string) (string, error) {
	if !g.IsSensitive(table, field) {
		return value, nil
	}
	return g.cipher.Encrypt(value)
}

// RevealValue decrypts the value when the field is sensitive. A failed decrypt
// is logged and the stored value is returned as-is so list queries survive
// partially corrupted rows.
func (g *FieldGate) RevealValue(table, field, value string) string {
	if !g.IsSensitive(table, field) {
		return value
	}
	plain, err := g.cipher.Decrypt(value)
	if err != nil {
		g.logger.Warn("field decrypt failed",
			zap.String("table", table),
			zap.String("field", field),
			zap.Error(err))
		return value
	}
	return plain
}

// Protect encrypts every sensitive field present in the record.
func (g *FieldGate) Protect(table string, record map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(record))
	for k, v := range record {
		protected, err := g.ProtectValue(table, k, v)
		if err != nil {
			return nil, err
		}
		out[k] = protected
	}
	return out, nil
}

// Reveal decrypts every sensitive field present in the record.
func (g *FieldGate) Reveal(table string, record map[string]string) map[string]string {
	out := make(map[string]string, len(record))
	for k, v := range record {
		out[k] = g.RevealValue(table, k, v)
	}
	return out
}
