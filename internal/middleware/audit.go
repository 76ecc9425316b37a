package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/adr-api/internal/models"
)

type auditSink interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
}

// Audit records an HTTP-level audit trail entry after each successful
// request: method, route, status and latency, plus the actor when a token
// was presented. Failed requests are not recorded.
func Audit(sink auditSink, action, resourceType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		var userID *string
		if claimsValue, ok := c.Get(ContextUserKey); ok {
			claims := claimsValue.(*models.JWTClaims)
			userID = &claims.UserID
		}

		details, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		var resourceID *string
		if id := c.Param("id"); id != "" {
			resourceID = &id
		}

		_ = sink.Insert(c.Request.Context(), &models.AuditLog{
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Details:      string(details),
			ClientIP:     c.ClientIP(),
			UserAgent:    c.GetHeader("User-Agent"),
		})
	}
}
