package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/adr-api/internal/dto"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
	"github.com/noah-isme/adr-api/pkg/response"
)

type consolidatedService interface {
	DailyGeneral(ctx context.Context, q dto.ConsolidatedQuery) (*dto.GeneralOperationsResponse, error)
	DailyDetailed(ctx context.Context, q dto.ConsolidatedQuery) (*dto.DailyDetailedResponse, error)
	AccumulatedGeneral(ctx context.Context, q dto.ConsolidatedQuery) (*dto.GeneralOperationsResponse, error)
	AccumulatedDetailed(ctx context.Context, q dto.ConsolidatedQuery) (*dto.AccumulatedDetailedResponse, error)
}

// ConsolidatedHandler exposes the four consolidated operational views.
type ConsolidatedHandler struct {
	service consolidatedService
}

// NewConsolidatedHandler builds a new handler.
func NewConsolidatedHandler(service consolidatedService) *ConsolidatedHandler {
	return &ConsolidatedHandler{service: service}
}

func bindConsolidatedQuery(c *gin.Context) (dto.ConsolidatedQuery, bool) {
	var q dto.ConsolidatedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return q, false
	}
	return q, true
}

// DailyGeneral godoc
// @Summary Daily general operations view
// @Tags Consolidated
// @Produce json
// @Param fecha query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /admin/daily-general-operations [get]
func (h *ConsolidatedHandler) DailyGeneral(c *gin.Context) {
	q, ok := bindConsolidatedQuery(c)
	if !ok {
		return
	}
	view, err := h.service.DailyGeneral(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// DailyDetailed godoc
// @Summary Daily operations grouped by client operation
// @Tags Consolidated
// @Produce json
// @Param fecha query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /admin/daily-detailed-operations [get]
func (h *ConsolidatedHandler) DailyDetailed(c *gin.Context) {
	q, ok := bindConsolidatedQuery(c)
	if !ok {
		return
	}
	view, err := h.service.DailyDetailed(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// AccumulatedGeneral godoc
// @Summary Accumulated general operations view
// @Tags Consolidated
// @Produce json
// @Param fecha_inicio query string false "Range start (YYYY-MM-DD), defaults to Monday"
// @Param fecha_fin query string false "Range end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /admin/accumulated-general-operations [get]
func (h *ConsolidatedHandler) AccumulatedGeneral(c *gin.Context) {
	q, ok := bindConsolidatedQuery(c)
	if !ok {
		return
	}
	view, err := h.service.AccumulatedGeneral(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// AccumulatedDetailed godoc
// @Summary Accumulated operations grouped by client operation
// @Tags Consolidated
// @Produce json
// @Param fecha_inicio query string false "Range start (YYYY-MM-DD), defaults to Monday"
// @Param fecha_fin query string false "Range end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /admin/accumulated-detailed-operations [get]
func (h *ConsolidatedHandler) AccumulatedDetailed(c *gin.Context) {
	q, ok := bindConsolidatedQuery(c)
	if !ok {
		return
	}
	view, err := h.service.AccumulatedDetailed(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
