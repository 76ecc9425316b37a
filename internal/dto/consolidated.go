package dto

// Origin-tagged child entries for the consolidated views. Every entry names
// the administrator and operation that produced it.

type TaggedIncident struct {
	Tipo             string `json:"tipo"`
	NombreEmpleado   string `json:"nombre_empleado"`
	FechaFin         string `json:"fecha_fin,omitempty"`
	Administrador    string `json:"administrador"`
	ClienteOperacion string `json:"cliente_operacion"`
	FechaRegistro    string `json:"fecha_registro"`
}

type TaggedMovement struct {
	NombreEmpleado   string `json:"nombre_empleado"`
	Cargo            string `json:"cargo"`
	Estado           string `json:"estado"`
	Administrador    string `json:"administrador"`
	ClienteOperacion string `json:"cliente_operacion"`
	FechaRegistro    string `json:"fecha_registro"`
}

type TaggedFact struct {
	Hecho            string `json:"hecho"`
	Administrador    string `json:"administrador"`
	ClienteOperacion string `json:"cliente_operacion"`
	FechaRegistro    string `json:"fecha_registro"`
}

// GeneralOperationsResponse is the flattened view shared by the daily and
// accumulated general endpoints. The accumulated variant fills the range
// fields; the daily variant fills Fecha.
type GeneralOperationsResponse struct {
	Fecha                string           `json:"fecha,omitempty"`
	FechaInicio          string           `json:"fecha_inicio,omitempty"`
	FechaFin             string           `json:"fecha_fin,omitempty"`
	PeriodoDescripcion   string           `json:"periodo_descripcion"`
	PromedioHorasDiarias float64          `json:"promedio_horas_diarias"`
	TotalPersonalStaff   int              `json:"total_personal_staff"`
	TotalPersonalBase    int              `json:"total_personal_base"`
	TotalReportes        int              `json:"total_reportes"`
	OperacionesReportadas []string        `json:"operaciones_reportadas"`
	TotalIncidencias     int              `json:"total_incidencias"`
	TotalMovimientos     int              `json:"total_movimientos"`
	Incidencias          []TaggedIncident `json:"incidencias"`
	Movimientos          []TaggedMovement `json:"movimientos"`
	HechosRelevantes     []TaggedFact     `json:"hechos_relevantes"`
}

// DailyOperationGroup is one operation's block in the daily detailed view.
// EsPromedioHoras marks HorasDiarias as a mean when the operation had more
// than one report that day.
type DailyOperationGroup struct {
	ClienteOperacion      string           `json:"cliente_operacion"`
	Administradores       []string         `json:"administradores"`
	NumReportes           int              `json:"num_reportes"`
	HorasDiarias          float64          `json:"horas_diarias"`
	EsPromedioHoras       bool             `json:"es_promedio_horas"`
	PersonalStaff         int              `json:"personal_staff"`
	PersonalBase          int              `json:"personal_base"`
	TotalIncidencias      int              `json:"total_incidencias"`
	TotalMovimientos      int              `json:"total_movimientos"`
	TotalHechosRelevantes int              `json:"total_hechos_relevantes"`
	Incidencias           []TaggedIncident `json:"incidencias"`
	Movimientos           []TaggedMovement `json:"movimientos"`
	HechosRelevantes      []TaggedFact     `json:"hechos_relevantes"`
}

// DailyDetailedResponse groups a single day's reports by operation.
type DailyDetailedResponse struct {
	Fecha              string                `json:"fecha"`
	PeriodoDescripcion string                `json:"periodo_descripcion"`
	TotalOperaciones   int                   `json:"total_operaciones"`
	TotalReportes      int                   `json:"total_reportes"`
	Operaciones        []DailyOperationGroup `json:"operaciones"`
}

// AccumulatedOperationGroup is one operation's block in the accumulated
// detailed view. Numeric figures are per-operation means over the range.
type AccumulatedOperationGroup struct {
	ClienteOperacion       string           `json:"cliente_operacion"`
	Administradores        []string         `json:"administradores"`
	NumReportes            int              `json:"num_reportes"`
	PromedioHorasDiarias   float64          `json:"promedio_horas_diarias"`
	PromedioPersonalStaff  float64          `json:"promedio_personal_staff"`
	PromedioPersonalBase   float64          `json:"promedio_personal_base"`
	TotalIncidencias       int              `json:"total_incidencias"`
	TotalMovimientos       int              `json:"total_movimientos"`
	TotalHechosRelevantes  int              `json:"total_hechos_relevantes"`
	Incidencias            []TaggedIncident `json:"incidencias"`
	Movimientos            []TaggedMovement `json:"movimientos"`
	HechosRelevantes       []TaggedFact     `json:"hechos_relevantes"`
}

// AccumulatedDetailedResponse groups a date range's reports by operation.
type AccumulatedDetailedResponse struct {
	FechaInicio        string                      `json:"fecha_inicio"`
	FechaFin           string                      `json:"fecha_fin"`
	PeriodoDescripcion string                      `json:"periodo_descripcion"`
	TotalOperaciones   int                         `json:"total_operaciones"`
	TotalReportes      int                         `json:"total_reportes"`
	Operaciones        []AccumulatedOperationGroup `json:"operaciones"`
}

// ConsolidatedQuery captures the optional date / range query params.
type ConsolidatedQuery struct {
	Fecha       string `form:"fecha" binding:"omitempty,datetime=2006-01-02"`
	FechaInicio string `form:"fecha_inicio" binding:"omitempty,datetime=2006-01-02"`
	FechaFin    string `form:"fecha_fin" binding:"omitempty,datetime=2006-01-02"`
}
