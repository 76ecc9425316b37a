package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports the state of every backing store. The workbook is the
// only hard dependency; the mirror and cache report "degraded" when down.
type HealthHandler struct {
	db           *sqlx.DB
	redis        *redis.Client
	workbookPath string
}

// NewHealthHandler builds a new handler.
func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, workbookPath string) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, workbookPath: workbookPath}
}

// Health godoc
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	stores := gin.H{}
	status := "ok"

	if _, err := os.Stat(h.workbookPath); err != nil {
		stores["excel"] = "error"
		status = "error"
	} else {
		stores["excel"] = "ok"
	}

	if h.db == nil {
		stores["postgres"] = "disabled"
	} else if err := h.db.PingContext(c.Request.Context()); err != nil {
		stores["postgres"] = "error"
		if status == "ok" {
			status = "degraded"
		}
	} else {
		stores["postgres"] = "ok"
	}

	if h.redis == nil {
		stores["redis"] = "disabled"
	} else if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		stores["redis"] = "error"
		if status == "ok" {
			status = "degraded"
		}
	} else {
		stores["redis"] = "ok"
	}

	code := http.StatusOK
	if status == "error" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "stores": stores})
}
