package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) setupRoutes() {
	s.router.GET("/", s.faceHandler.Page)
	s.router.GET("/health", s.healthHandler.HealthCheck)
	s.router.GET("/ready", s.healthHandler.Ready)

	api := s.router.Group("/api")
	{
		api.GET("/instance", s.healthHandler.Info)
		api.GET("/defaults", s.faceHandler.Defaults)
		api.POST("/detect", s.faceHandler.DetectOnce)

		sessions := api.Group("/sessions")
		{
			sessions.POST("", s.faceHandler.CreateSession)
			sessions.GET("/:id", s.faceHandler.GetSession)
			sessions.DELETE("/:id", s.faceHandler.DeleteSession)
			sessions.PUT("/:id/params", s.faceHandler.UpdateParams)
			sessions.GET("/:id/download", s.faceHandler.Download)
		}
	}

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
		system.GET("/debug", s.systemHandler.GetDebugInfo)
	}

	if s.config.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(s.container.Metrics.Handler()))
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
	})
}
