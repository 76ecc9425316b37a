package service

import (
	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/pkg/config"
)

// CatalogService exposes the closed enum lists the form UI depends on. The
// lists are deployment data, not code.
type CatalogService struct {
	catalog config.CatalogConfig
}

// NewCatalogService constructs the service.
func NewCatalogService(catalog config.CatalogConfig) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Catalog returns the configured enum lists.
func (s *CatalogService) Catalog() dto.CatalogResponse {
	return dto.CatalogResponse{
		Administradores: append([]string{}, s.catalog.Administrators...),
		Operaciones:     append([]string{}, s.catalog.Operations...),
		TiposIncidencia: append([]string{}, s.catalog.IncidentTypes...),
		TiposMovimiento: []string{string(models.MovementIngreso), string(models.MovementRetiro)},
	}
}
