package excel

import (
	"fmt"
	"strings"
)

// Sheet names in the legacy workbook.
const (
	SheetReports       = "Reportes"
	SheetIncidents     = "Incidencias"
	SheetMovements     = "Ingresos_Retiros"
	SheetConfiguration = "Configuracion"
)

// Column indexes for the Reportes sheet.
const (
	colReportID = iota
	colReportCreatedAt
	colReportAdministrator
	colReportOperation
	colReportDailyHours
	colReportStaff
	colReportBase
	colReportIncidentCount
	colReportMovementCount
	colReportRelevantFacts
	colReportStatus
	colReportClientIP
	colReportUserAgent
)

// Column indexes for the Incidencias sheet.
const (
	colIncidentReportID = iota
	colIncidentNumber
	colIncidentType
	colIncidentEmployee
	colIncidentEndDate
	colIncidentNotes
	colIncidentCreatedAt
)

// Column indexes for the Ingresos_Retiros sheet.
const (
	colMovementReportID = iota
	colMovementNumber
	colMovementEmployee
	colMovementPosition
	colMovementType
	colMovementEffectiveDate
	colMovementNotes
	colMovementCreatedAt
)

// Column indexes for the Configuracion sheet.
const (
	colConfigKey = iota
	colConfigValue
	colConfigDescription
	colConfigUpdatedAt
)

// schema is the explicit column layout shared by the writer and the reader.
// The header row of every sheet is validated against it at open time so a
// drifted file fails fast instead of being silently misread.
var schema = map[string][]string{
	SheetReports: {
		"ID", "Fecha_Creacion", "Administrador", "Cliente_Operacion",
		"Horas_Diarias", "Personal_Staff", "Personal_Base",
		"Cantidad_Incidencias", "Cantidad_Ingresos_Retiros",
		"Hechos_Relevantes", "Estado", "IP_Origen", "User_Agent",
	},
	SheetIncidents: {
		"ID_Reporte", "Numero_Incidencia", "Tipo_Incidencia",
		"Nombre_Empleado", "Fecha_Fin_Novedad", "Notas", "Fecha_Registro",
	},
	SheetMovements: {
		"ID_Reporte", "Numero_Movimiento", "Nombre_Empleado",
		"Cargo", "Estado", "Fecha_Efectiva", "Notas", "Fecha_Registro",
	},
	SheetConfiguration: {
		"Clave", "Valor", "Descripcion", "Fecha_Modificacion",
	},
}

// validateHeaders checks one sheet's header row against the schema.
func validateHeaders(sheet string, headers []string) error {
	want := schema[sheet]
	if len(headers) < len(want) {
		return fmt.Errorf("sheet %s: expected %d columns, found %d", sheet, len(want), len(headers))
	}
	for i, col := range want {
		if !strings.EqualFold(strings.TrimSpace(headers[i]), col) {
			return fmt.Errorf("sheet %s: column %d is %q, expected %q", sheet, i+1, headers[i], col)
		}
	}
	return nil
}
