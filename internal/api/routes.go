package api

import (
	"github.com/gin-gonic/gin"

	"github.com/RichGutz/Scraper.Neoauto/internal/telemetry"
)

// SetupRoutes configures all API routes on the router.
func SetupRoutes(router *gin.Engine, handler *Handler, tel *telemetry.Provider) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	if tel != nil {
		router.GET("/metrics", gin.WrapH(tel.Handler()))
	}

	v1 := router.Group("/api/v1")

	classify := v1.Group("/classify")
	classify.POST("", handler.Classify)            // POST /api/v1/classify
	classify.POST("/batch", handler.ClassifyBatch) // POST /api/v1/classify/batch

	v1.GET("/metrics", handler.GetMetrics) // GET /api/v1/metrics
	v1.GET("/leads", handler.GetLeads)     // GET /api/v1/leads

	apiRules := v1.Group("/rules")
	apiRules.GET("", handler.ListRules)   // GET /api/v1/rules
	apiRules.POST("", handler.CreateRule) // POST /api/v1/rules
}
