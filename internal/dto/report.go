package dto

import (
	"time"

	"github.com/noah-isme/adr-api/internal/models"
)

// DateLayout is the wire format for calendar dates (fecha, fecha_fin, ...).
const DateLayout = "2006-01-02"

// IncidentRequest is one incident entry inside a report payload.
type IncidentRequest struct {
	Tipo           string `json:"tipo" binding:"required"`
	NombreEmpleado string `json:"nombre_empleado" binding:"required,min=3,max=100"`
	FechaFin       string `json:"fecha_fin" binding:"required,datetime=2006-01-02"`
	Notas          string `json:"notas" binding:"omitempty,max=500"`
}

// MovementRequest is one personnel entry/exit inside a report payload.
type MovementRequest struct {
	NombreEmpleado string `json:"nombre_empleado" binding:"required,min=3,max=100"`
	Cargo          string `json:"cargo" binding:"required,min=2,max=50"`
	Estado         string `json:"estado" binding:"required,oneof=Ingreso Retiro"`
	FechaEfectiva  string `json:"fecha_efectiva" binding:"omitempty,datetime=2006-01-02"`
	Notas          string `json:"notas" binding:"omitempty,max=500"`
}

// CreateReportRequest captures POST /reports.
type CreateReportRequest struct {
	Administrador    string            `json:"administrador" binding:"required"`
	ClienteOperacion string            `json:"cliente_operacion" binding:"required"`
	HorasDiarias     float64           `json:"horas_diarias" binding:"required,gte=1,lte=24"`
	PersonalStaff    int               `json:"personal_staff" binding:"gte=0"`
	PersonalBase     int               `json:"personal_base" binding:"gte=0"`
	Incidencias      []IncidentRequest `json:"incidencias" binding:"omitempty,max=50,dive"`
	IngresosRetiros  []MovementRequest `json:"ingresos_retiros" binding:"omitempty,max=50,dive"`
	HechosRelevantes string            `json:"hechos_relevantes" binding:"omitempty,max=2000"`
}

// UpdateReportRequest captures PUT /reports/:id. Absent fields stay unchanged;
// a present child list replaces the report's whole set of that kind.
type UpdateReportRequest struct {
	HorasDiarias     *float64          `json:"horas_diarias" binding:"omitempty,gte=1,lte=24"`
	PersonalStaff    *int              `json:"personal_staff" binding:"omitempty,gte=0"`
	PersonalBase     *int              `json:"personal_base" binding:"omitempty,gte=0"`
	HechosRelevantes *string           `json:"hechos_relevantes" binding:"omitempty,max=2000"`
	Incidencias      []IncidentRequest `json:"incidencias" binding:"omitempty,max=50,dive"`
	IngresosRetiros  []MovementRequest `json:"ingresos_retiros" binding:"omitempty,max=50,dive"`
}

// IncidentResponse is one incident entry in a report response.
type IncidentResponse struct {
	ID             string     `json:"id,omitempty"`
	Tipo           string     `json:"tipo"`
	NombreEmpleado string     `json:"nombre_empleado"`
	FechaFin       string     `json:"fecha_fin"`
	Notas          string     `json:"notas,omitempty"`
	FechaRegistro  *time.Time `json:"fecha_registro,omitempty"`
}

// MovementResponse is one movement entry in a report response.
type MovementResponse struct {
	ID             string     `json:"id,omitempty"`
	NombreEmpleado string     `json:"nombre_empleado"`
	Cargo          string     `json:"cargo"`
	Estado         string     `json:"estado"`
	FechaEfectiva  string     `json:"fecha_efectiva,omitempty"`
	Notas          string     `json:"notas,omitempty"`
	FechaRegistro  *time.Time `json:"fecha_registro,omitempty"`
}

// ReportResponse is the full report detail payload. ID carries the
// legacy-format identifier; UUID the relational one when mirrored.
type ReportResponse struct {
	ID                       string             `json:"id"`
	UUID                     string             `json:"uuid,omitempty"`
	Administrador            string             `json:"administrador"`
	ClienteOperacion         string             `json:"cliente_operacion"`
	HorasDiarias             float64            `json:"horas_diarias"`
	PersonalStaff            int                `json:"personal_staff"`
	PersonalBase             int                `json:"personal_base"`
	CantidadIncidencias      int                `json:"cantidad_incidencias"`
	CantidadIngresosRetiros  int                `json:"cantidad_ingresos_retiros"`
	Estado                   string             `json:"estado"`
	HechosRelevantes         string             `json:"hechos_relevantes"`
	FechaReporte             string             `json:"fecha_reporte"`
	FechaCreacion            time.Time          `json:"fecha_creacion"`
	Incidencias              []IncidentResponse `json:"incidencias"`
	IngresosRetiros          []MovementResponse `json:"ingresos_retiros"`
}

// ReportCreatedData is the data block returned after a successful submission.
type ReportCreatedData struct {
	ID            string    `json:"id"`
	FechaCreacion time.Time `json:"fecha_creacion"`
	ReportesHoy   int       `json:"reportes_hoy"`
	Mensaje       string    `json:"mensaje,omitempty"`
}

// ReportListQuery captures the admin list filters as query params.
type ReportListQuery struct {
	Administrador string `form:"administrador"`
	Cliente       string `form:"cliente"`
	FechaInicio   string `form:"fecha_inicio" binding:"omitempty,datetime=2006-01-02"`
	FechaFin      string `form:"fecha_fin" binding:"omitempty,datetime=2006-01-02"`
	Page          int    `form:"page,default=1" binding:"omitempty,gte=1"`
	Limit         int    `form:"limit,default=20" binding:"omitempty,gte=1,lte=100"`
}

// ToIncidentModels converts request incidents into domain models.
func ToIncidentModels(in []IncidentRequest) []models.Incident {
	out := make([]models.Incident, 0, len(in))
	for _, r := range in {
		end, _ := time.Parse(DateLayout, r.FechaFin)
		out = append(out, models.Incident{
			IncidentType: r.Tipo,
			EmployeeName: r.NombreEmpleado,
			EndDate:      end,
			Notes:        r.Notas,
		})
	}
	return out
}

// ToMovementModels converts request movements into domain models.
func ToMovementModels(in []MovementRequest) []models.Movement {
	out := make([]models.Movement, 0, len(in))
	for _, r := range in {
		m := models.Movement{
			EmployeeName: r.NombreEmpleado,
			Position:     r.Cargo,
			MovementType: models.MovementType(r.Estado),
			Notes:        r.Notas,
		}
		if r.FechaEfectiva != "" {
			if d, err := time.Parse(DateLayout, r.FechaEfectiva); err == nil {
				m.EffectiveDate = &d
			}
		}
		out = append(out, m)
	}
	return out
}

// FromReport builds the wire representation of a report and its children.
func FromReport(r *models.Report) ReportResponse {
	resp := ReportResponse{
		ID:                      r.LegacyID,
		UUID:                    r.ID,
		Administrador:           r.Administrator,
		ClienteOperacion:        r.ClientOperation,
		HorasDiarias:            r.DailyHours,
		PersonalStaff:           r.StaffPersonnel,
		PersonalBase:            r.BasePersonnel,
		CantidadIncidencias:     len(r.Incidents),
		CantidadIngresosRetiros: len(r.Movements),
		Estado:                  models.LegacyReportStatus,
		HechosRelevantes:        r.RelevantFacts,
		FechaReporte:            r.ReportDate.Format(DateLayout),
		FechaCreacion:           r.CreatedAt,
		Incidencias:             make([]IncidentResponse, 0, len(r.Incidents)),
		IngresosRetiros:         make([]MovementResponse, 0, len(r.Movements)),
	}
	for _, inc := range r.Incidents {
		created := inc.CreatedAt
		item := IncidentResponse{
			ID:             inc.ID,
			Tipo:           inc.IncidentType,
			NombreEmpleado: inc.EmployeeName,
			Notas:          inc.Notes,
		}
		if !inc.EndDate.IsZero() {
			item.FechaFin = inc.EndDate.Format(DateLayout)
		}
		if !created.IsZero() {
			item.FechaRegistro = &created
		}
		resp.Incidencias = append(resp.Incidencias, item)
	}
	for _, mov := range r.Movements {
		created := mov.CreatedAt
		item := MovementResponse{
			ID:             mov.ID,
			NombreEmpleado: mov.EmployeeName,
			Cargo:          mov.Position,
			Estado:         string(mov.MovementType),
			Notas:          mov.Notes,
		}
		if mov.EffectiveDate != nil {
			item.FechaEfectiva = mov.EffectiveDate.Format(DateLayout)
		}
		if !created.IsZero() {
			item.FechaRegistro = &created
		}
		resp.IngresosRetiros = append(resp.IngresosRetiros, item)
	}
	return resp
}
