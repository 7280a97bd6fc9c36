package routes

import (
	"civiclens-be/controllers"
	"civiclens-be/middlewares"
	"civiclens-be/models"

	"github.com/gin-gonic/gin"
)

// WorkerRoutes sets up the read-only worker lookups
func WorkerRoutes(r *gin.Engine, wc *controllers.WorkerController) {
	worker := r.Group("/api/worker", middlewares.AuthMiddleware())
	{
		worker.GET("/all",
			middlewares.RequireRole(models.Admin, models.Head), wc.ListWorkers)
		worker.GET("/:id", wc.GetWorker)
	}
}
