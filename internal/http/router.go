package http

import (
	"github.com/gin-gonic/gin"

	"github.com/RC170373/bookie-melissa-sub001/internal/database"
)

// NewRouter assembles the admin router. tasks may be nil when the task
// queue is disabled.
func NewRouter(db *database.Database, runner MaintenanceRunner, tasks TaskEnqueuer, version string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	health := NewHealthController(db, version)
	router.GET("/health", health.Status)

	ctrl := NewMaintenanceController(runner, tasks)
	api := router.Group("/api")
	{
		api.POST("/maintenance/dedup", ctrl.RunDedup)
		api.POST("/maintenance/enrichment", ctrl.RunEnrichment)
		api.POST("/books/:id/enrich", ctrl.EnrichBook)
	}

	return router
}
