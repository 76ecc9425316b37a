package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/adr-api/internal/middleware"
	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func clientMeta(c *gin.Context) service.ClientMeta {
	meta := service.ClientMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if claims := claimsFromContext(c); claims != nil {
		meta.UserID = &claims.UserID
	}
	return meta
}
