package routes

import (
	"civiclens-be/controllers"
	"civiclens-be/middlewares"
	"civiclens-be/models"

	"github.com/gin-gonic/gin"
)

// dailyIssueLimit caps how many reports one citizen can file per day.
const dailyIssueLimit = 5

// IssueRoutes sets up the issue lifecycle routes
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController) {
	issue := r.Group("/api/issue", middlewares.AuthMiddleware())
	{
		issue.POST("/create", middlewares.IssueRateLimiter(dailyIssueLimit), ic.CreateIssue)
		issue.GET("/mine", ic.ListMyIssues)
		issue.GET("/all",
			middlewares.RequireRole(models.Admin, models.Head), ic.ListAllIssues)
		issue.GET("/assigned/:workerId",
			middlewares.RequireRole(models.Staff, models.Admin, models.Head), ic.ListAssignedIssues)
		issue.GET("/:id", ic.GetIssue)
		issue.POST("/:id/assign",
			middlewares.RequireRole(models.Admin, models.Head), ic.AssignWorker)
		issue.POST("/:id/updates",
			middlewares.RequireRole(models.Staff, models.Admin, models.Head), ic.AppendUpdate)
	}
}
