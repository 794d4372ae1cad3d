package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pulsehq/teampulse-backend/internal/handlers"
)

type RouterConfig struct {
	PerformanceHandler  *handlers.PerformanceHandler
	NotificationHandler *handlers.NotificationHandler
	AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		perf := api.Group("/performance")
		perf.POST("/track-activity", cfg.PerformanceHandler.TrackActivity)
		perf.GET("/dashboard/:user_id", cfg.PerformanceHandler.GetDashboard)
		perf.GET("/analytics/:user_id", cfg.PerformanceHandler.GetAnalytics)
		perf.GET("/notifications/:user_id/stream", cfg.NotificationHandler.Stream)

		admin := api.Group("/admin")
		admin.POST("/cleanup", cfg.PerformanceHandler.Cleanup)
	}

	return router
}
