package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/pkg/response"
)

type analyticsService interface {
	Dashboard(ctx context.Context) (*dto.AnalyticsResponse, error)
}

// AnalyticsHandler exposes the dashboard summary.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler builds a new handler.
func NewAnalyticsHandler(service analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Dashboard godoc
// @Summary Dashboard summary cards and charts
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/analytics [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	out, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}
