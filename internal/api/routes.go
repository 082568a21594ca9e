package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propaudit/server/internal/property"
)

func SetupRoutes(router *gin.Engine, service *property.Service, defaultState string, rateLimitPerMinute int, logger *logrus.Logger) {
	handler := NewHandler(service, defaultState, logger)
	limiter := NewRateLimiter(rateLimitPerMinute)

	api := router.Group("/api")
	api.Use(limiter.Middleware())
	{
		api.GET("/health", handler.Health)

		api.POST("/properties/sync/:city", handler.SyncCity)
		api.GET("/properties", handler.GetProperties)
		api.GET("/properties/:id", handler.GetProperty)
		api.GET("/properties/:id/analysis", handler.GetAnalysis)
		api.POST("/properties/:id/audit", handler.GenerateAudit)
		api.GET("/properties/nearby/search", handler.SearchNearby)
		api.GET("/properties/city/:city/stats", handler.GetCityStats)
	}
}
