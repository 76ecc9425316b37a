package dto

import "time"

// ConfigurationRequest captures PUT /admin/configuration/:key.
type ConfigurationRequest struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

// ConfigurationResponse is one runtime parameter on the wire.
type ConfigurationResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CatalogResponse exposes the closed enum lists consumed by the form UI.
type CatalogResponse struct {
	Administradores []string `json:"administradores"`
	Operaciones     []string `json:"operaciones"`
	TiposIncidencia []string `json:"tipos_incidencia"`
	TiposMovimiento []string `json:"tipos_movimiento"`
}
