package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/adr-api/internal/dto"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
	"github.com/noah-isme/adr-api/pkg/response"
)

type configurationService interface {
	List(ctx context.Context) ([]dto.ConfigurationResponse, error)
	Set(ctx context.Context, key string, req dto.ConfigurationRequest) error
}

// ConfigurationHandler exposes the runtime parameter store.
type ConfigurationHandler struct {
	service configurationService
}

// NewConfigurationHandler builds a new handler.
func NewConfigurationHandler(service configurationService) *ConfigurationHandler {
	return &ConfigurationHandler{service: service}
}

// List godoc
// @Summary List runtime parameters
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/configuration [get]
func (h *ConfigurationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Set godoc
// @Summary Upsert a runtime parameter
// @Tags Configuration
// @Accept json
// @Produce json
// @Param key path string true "Parameter key"
// @Param payload body dto.ConfigurationRequest true "Parameter value"
// @Success 200 {object} response.Envelope
// @Router /admin/configuration/{key} [put]
func (h *ConfigurationHandler) Set(c *gin.Context) {
	var req dto.ConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration payload"))
		return
	}
	key := c.Param("key")
	if key == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "configuration key is required"))
		return
	}
	if err := h.service.Set(c.Request.Context(), key, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"mensaje": "configuración actualizada"}, nil)
}
