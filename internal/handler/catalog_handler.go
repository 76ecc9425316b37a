package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/pkg/response"
)

type catalogService interface {
	Catalog() dto.CatalogResponse
}

// CatalogHandler serves the closed enum lists consumed by the form UI.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Catalog godoc
// @Summary Form catalogs
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogos [get]
func (h *CatalogHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Catalog(), nil)
}
