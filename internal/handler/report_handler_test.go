package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/middleware"
	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/internal/service"
	appErrors "github.com/noah-isme/adr-api/pkg/errors"
)

type reportServiceMock struct {
	submitResp *dto.ReportCreatedData
	submitErr  error
	lastMeta   service.ClientMeta
	deleteErr  error
}

func (m *reportServiceMock) Submit(ctx context.Context, req dto.CreateReportRequest, meta service.ClientMeta) (*dto.ReportCreatedData, error) {
	m.lastMeta = meta
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.submitResp, nil
}

func (m *reportServiceMock) Get(ctx context.Context, legacyID string) (*dto.ReportResponse, error) {
	return &dto.ReportResponse{ID: legacyID}, nil
}

func (m *reportServiceMock) List(ctx context.Context, q dto.ReportListQuery) ([]dto.ReportResponse, *models.Pagination, error) {
	return []dto.ReportResponse{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *reportServiceMock) Update(ctx context.Context, legacyID string, req dto.UpdateReportRequest, meta service.ClientMeta) (*dto.ReportResponse, error) {
	return &dto.ReportResponse{ID: legacyID}, nil
}

func (m *reportServiceMock) Delete(ctx context.Context, legacyID string, meta service.ClientMeta) error {
	return m.deleteErr
}

func validCreateBody() []byte {
	body, _ := json.Marshal(dto.CreateReportRequest{
		Administrador:    "Adriana Robayo",
		ClienteOperacion: "VPI CUSIANA",
		HorasDiarias:     8,
		PersonalStaff:    2,
		PersonalBase:     10,
	})
	return body
}

func TestReportHandlerCreateReturns201(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportServiceMock{submitResp: &dto.ReportCreatedData{
		ID:            "RPT-20240115-001",
		FechaCreacion: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		ReportesHoy:   1,
	}}
	h := NewReportHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/report", bytes.NewReader(validCreateBody()))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "RPT-20240115-001")
}

func TestReportHandlerCreateRejectsOutOfRangeHours(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{})

	payload := map[string]interface{}{
		"administrador":     "Adriana Robayo",
		"cliente_operacion": "VPI CUSIANA",
		"horas_diarias":     25,
		"personal_staff":    2,
		"personal_base":     10,
	}
	body, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/report", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerCreateAttributesAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportServiceMock{submitResp: &dto.ReportCreatedData{ID: "RPT-20240115-001"}}
	h := NewReportHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/report", bytes.NewReader(validCreateBody()))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin})

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.lastMeta.UserID)
	assert.Equal(t, "user-1", *mock.lastMeta.UserID)
}

func TestReportHandlerDeleteMapsForbiddenMutation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportServiceMock{deleteErr: appErrors.Clone(appErrors.ErrForbiddenMutation, "report dated 2024-01-15 can only be modified on that same day")}
	h := NewReportHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/reports/RPT-20240115-001", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "RPT-20240115-001"}}

	h.Delete(c)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "2024-01-15")
}

func TestReportHandlerListBindsQueryDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/reports?administrador=Adriana+Robayo", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.Page)
}
