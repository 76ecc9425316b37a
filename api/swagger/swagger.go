package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admin Daily Report API",
        "description": "Operational daily reporting backend with dual persistence",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reports", "description": "Daily report submission and management"},
        {"name": "Consolidated", "description": "Consolidated operational views"},
        {"name": "Analytics", "description": "Dashboard summary"},
        {"name": "Auth", "description": "Sessions and accounts"},
        {"name": "Configuration", "description": "Runtime parameters"},
        {"name": "Catalog", "description": "Form enum lists"},
        {"name": "Export", "description": "Report downloads"}
    ],
    "paths": {
        "/report": {
            "post": {
                "tags": ["Reports"],
                "summary": "Submit a daily report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed or daily limit reached"}
                }
            }
        },
        "/reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "List reports",
                "parameters": [
                    {"name": "administrador", "in": "query", "type": "string"},
                    {"name": "cliente", "in": "query", "type": "string"},
                    {"name": "fecha_inicio", "in": "query", "type": "string"},
                    {"name": "fecha_fin", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Get report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Reports"],
                "summary": "Update a same-day report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Report belongs to a previous day"}
                }
            },
            "delete": {
                "tags": ["Reports"],
                "summary": "Delete a same-day report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Report belongs to a previous day"},
                    "404": {"description": "Not found in any store"}
                }
            }
        },
        "/admin/daily-general-operations": {
            "get": {
                "tags": ["Consolidated"],
                "summary": "Daily general operations view",
                "parameters": [
                    {"name": "fecha", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/daily-detailed-operations": {
            "get": {
                "tags": ["Consolidated"],
                "summary": "Daily operations grouped by client operation",
                "parameters": [
                    {"name": "fecha", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/accumulated-general-operations": {
            "get": {
                "tags": ["Consolidated"],
                "summary": "Accumulated general operations view",
                "parameters": [
                    {"name": "fecha_inicio", "in": "query", "type": "string"},
                    {"name": "fecha_fin", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/accumulated-detailed-operations": {
            "get": {
                "tags": ["Consolidated"],
                "summary": "Accumulated operations grouped by client operation",
                "parameters": [
                    {"name": "fecha_inicio", "in": "query", "type": "string"},
                    {"name": "fecha_fin", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/analytics": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Dashboard summary cards and charts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reports/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Export filtered reports as CSV or PDF",
                "parameters": [
                    {"name": "formato", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "administrador", "in": "query", "type": "string"},
                    {"name": "fecha_inicio", "in": "query", "type": "string"},
                    {"name": "fecha_fin", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/admin/configuration": {
            "get": {
                "tags": ["Configuration"],
                "summary": "List runtime parameters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/configuration/{key}": {
            "put": {
                "tags": ["Configuration"],
                "summary": "Upsert a runtime parameter",
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConfigurationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/catalogos": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Form catalogs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive a token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        }
    },
    "definitions": {
        "CreateReportRequest": {
            "type": "object",
            "properties": {
                "administrador": {"type": "string"},
                "cliente_operacion": {"type": "string"},
                "horas_diarias": {"type": "number", "minimum": 1, "maximum": 24},
                "personal_staff": {"type": "integer"},
                "personal_base": {"type": "integer"},
                "incidencias": {"type": "array", "items": {"$ref": "#/definitions/IncidentRequest"}},
                "ingresos_retiros": {"type": "array", "items": {"$ref": "#/definitions/MovementRequest"}},
                "hechos_relevantes": {"type": "string"}
            },
            "required": ["administrador", "cliente_operacion", "horas_diarias", "personal_staff", "personal_base"]
        },
        "UpdateReportRequest": {
            "type": "object",
            "properties": {
                "horas_diarias": {"type": "number"},
                "personal_staff": {"type": "integer"},
                "personal_base": {"type": "integer"},
                "incidencias": {"type": "array", "items": {"$ref": "#/definitions/IncidentRequest"}},
                "ingresos_retiros": {"type": "array", "items": {"$ref": "#/definitions/MovementRequest"}},
                "hechos_relevantes": {"type": "string"}
            }
        },
        "IncidentRequest": {
            "type": "object",
            "properties": {
                "tipo": {"type": "string"},
                "nombre_empleado": {"type": "string"},
                "fecha_fin": {"type": "string"},
                "notas": {"type": "string"}
            },
            "required": ["tipo", "nombre_empleado", "fecha_fin"]
        },
        "MovementRequest": {
            "type": "object",
            "properties": {
                "nombre_empleado": {"type": "string"},
                "cargo": {"type": "string"},
                "estado": {"type": "string", "enum": ["Ingreso", "Retiro"]},
                "fecha_efectiva": {"type": "string"},
                "notas": {"type": "string"}
            },
            "required": ["nombre_empleado", "cargo", "estado"]
        },
        "ConfigurationRequest": {
            "type": "object",
            "properties": {
                "value": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["value"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
