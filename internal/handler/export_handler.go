package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/service"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
	"github.com/noah-isme/adr-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, q dto.ReportListQuery, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams report listings as downloadable files.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Download godoc
// @Summary Export filtered reports
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param formato query string true "csv or pdf"
// @Param administrador query string false "Filter by administrator"
// @Param fecha_inicio query string false "Start date (YYYY-MM-DD)"
// @Param fecha_fin query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /admin/reports/export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	var q dto.ReportListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	format := service.ExportFormat(c.DefaultQuery("formato", string(service.ExportCSV)))

	out, err := h.service.Export(c.Request.Context(), q, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
