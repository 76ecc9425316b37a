package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/internal/service"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
	"github.com/noah-isme/adr-api/pkg/response"
)

type reportService interface {
	Submit(ctx context.Context, req dto.CreateReportRequest, meta service.ClientMeta) (*dto.ReportCreatedData, error)
	Get(ctx context.Context, legacyID string) (*dto.ReportResponse, error)
	List(ctx context.Context, q dto.ReportListQuery) ([]dto.ReportResponse, *models.Pagination, error)
	Update(ctx context.Context, legacyID string, req dto.UpdateReportRequest, meta service.ClientMeta) (*dto.ReportResponse, error)
	Delete(ctx context.Context, legacyID string, meta service.ClientMeta) error
}

// ReportHandler exposes the daily report endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler builds a new handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create godoc
// @Summary Submit a daily report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.CreateReportRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Router /report [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}
	data, err := h.service.Submit(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, data)
}

// Get godoc
// @Summary Get a report by ID
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID (RPT-YYYYMMDD-NNN)"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// List godoc
// @Summary List reports
// @Tags Reports
// @Produce json
// @Param administrador query string false "Filter by administrator"
// @Param cliente query string false "Filter by client operation"
// @Param fecha_inicio query string false "Start date (YYYY-MM-DD)"
// @Param fecha_fin query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	var q dto.ReportListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	reports, pagination, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, pagination)
}

// Update godoc
// @Summary Update a same-day report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body dto.UpdateReportRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [put]
func (h *ReportHandler) Update(c *gin.Context) {
	var req dto.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}
	report, err := h.service.Update(c.Request.Context(), c.Param("id"), req, clientMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Delete godoc
// @Summary Delete a same-day report
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), clientMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"mensaje": "reporte eliminado"}, nil)
}
