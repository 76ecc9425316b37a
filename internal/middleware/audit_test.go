package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/adr-api/internal/models"
)

type fakeAuditSink struct {
	entries []models.AuditLog
}

func (f *fakeAuditSink) Insert(_ context.Context, entry *models.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func TestAuditRecordsSuccessfulMutation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := &fakeAuditSink{}

	r := gin.New()
	r.DELETE("/reports/:id",
		func(c *gin.Context) { c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin}) },
		Audit(sink, models.AuditActionHTTPMutation, "http"),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"mensaje": "reporte eliminado"}) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/reports/RPT-20240115-001", nil)
	req.Header.Set("User-Agent", "go-test")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sink.entries, 1)
	entry := sink.entries[0]
	assert.Equal(t, models.AuditActionHTTPMutation, entry.Action)
	assert.Equal(t, "http", entry.ResourceType)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "RPT-20240115-001", *entry.ResourceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "user-1", *entry.UserID)
	assert.Contains(t, entry.Details, `"method":"DELETE"`)
	assert.Equal(t, "go-test", entry.UserAgent)
}

func TestAuditRecordsAnonymousActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := &fakeAuditSink{}

	r := gin.New()
	r.POST("/report",
		Audit(sink, models.AuditActionHTTPMutation, "http"),
		func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/report", nil)
	r.ServeHTTP(w, req)

	require.Len(t, sink.entries, 1)
	assert.Nil(t, sink.entries[0].UserID)
	assert.Nil(t, sink.entries[0].ResourceID)
}

func TestAuditSkipsFailedRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := &fakeAuditSink{}

	r := gin.New()
	r.POST("/report",
		Audit(sink, models.AuditActionHTTPMutation, "http"),
		func(c *gin.Context) { c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed"}) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/report", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, sink.entries)
}
