package router

import (
	"podreport/app/handler"
	"podreport/app/middleware"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	reportHandler *handler.ReportHandler
}

// NewRouter creates a new Router
func NewRouter(reportHandler *handler.ReportHandler) *Router {
	return &Router{
		reportHandler: reportHandler,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())

	// API v1 - Reporting interface
	api := engine.Group("/api/v1")
	api.Use(middleware.AuthMiddleware()) // Simple token authentication
	{
		reports := api.Group("/reports")
		{
			// Hierarchical trees
			reports.GET("/projects", r.reportHandler.ListProjectReports)
			reports.GET("/projects/:project_id", r.reportHandler.GetProjectReport)

			// Flat tabular views
			reports.GET("/trainers", r.reportHandler.ListTrainerReports)
			reports.GET("/podleads", r.reportHandler.ListPodLeadReports)
			reports.GET("/tasks", r.reportHandler.ListTaskReports)

			// Invalidation hook for the external sync process
			reports.POST("/cache/invalidate", r.reportHandler.InvalidateCache)
		}
	}

	// Health check
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
