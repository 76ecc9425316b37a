package config

// Legacy deployment lists. Deployments override them through the CATALOG_*
// environment variables without recompiling.
var defaultAdministrators = []string{
	"Adriana Robayo",
	"Angela Ramirez",
	"Floribe Correa",
	"Julieth Rincon",
	"Eddinson Javier Martinez",
	"Kellis Minosca Morquera",
	"Kenia Sanchez",
	"Liliana Romero",
	"Marcela Cusba Gomez",
	"Mirledys Garcia San Juan",
	"Yolima Arenas Zarate",
}

var defaultOperations = []string{
	"Administrativo Barranca",
	"Administrativo Bogota",
	"CEDCO",
	"PAREX",
	"VRC",
	"SIERRACOL",
	"VPI ADMON",
	"VPI CUSIANA",
	"VPI FLORENA",
	"VPI CUPIAGUA",
}

var defaultIncidentTypes = []string{
	"Incapacidad Medica Por Enfermedad Comun",
	"Incapacidad Medica por Enfermedad Laboral",
	"Permiso por Cita Medica",
	"Licencia de Maternidad",
	"Licencia de paternidad",
	"Permiso por Luto",
	"Permiso por Calamidad Domestica",
	"Vacaciones",
	"Compensatorios",
	"Dia de la Familia",
	"Suspensiones de contrato",
	"Permisos no remunerados",
}
