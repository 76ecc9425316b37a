package dto

// AnalyticsResponse feeds the admin dashboard summary cards.
type AnalyticsResponse struct {
	TotalReportes           int                `json:"total_reportes"`
	ReportesHoy             int                `json:"reportes_hoy"`
	PromedioHorasDiarias    float64            `json:"promedio_horas_diarias"`
	TotalIncidenciasMes     int                `json:"total_incidencias_mes"`
	AdministradoresActivos  int                `json:"administradores_activos"`
	Graficos                AnalyticsCharts    `json:"graficos"`
}

// AnalyticsCharts carries the per-dimension series for the dashboard charts.
type AnalyticsCharts struct {
	ReportesPorDia       []SeriesPoint `json:"reportes_por_dia"`
	ReportesPorOperacion []SeriesPoint `json:"reportes_por_operacion"`
	IncidenciasPorTipo   []SeriesPoint `json:"incidencias_por_tipo"`
}

// SeriesPoint is one labelled value in a chart series.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
