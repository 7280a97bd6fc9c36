package routes

import (
	"civiclens-be/controllers"
	"civiclens-be/middlewares"

	"github.com/gin-gonic/gin"
)

// LeaderboardRoutes sets up the ranking dashboards
func LeaderboardRoutes(r *gin.Engine, lc *controllers.LeaderboardController) {
	board := r.Group("/api/leaderboard", middlewares.AuthMiddleware())
	{
		board.GET("/citizens", lc.CitizenLeaderboard)
		board.GET("/workers", lc.WorkerPerformance)
		board.GET("/workers/legacy", lc.WorkerLeaderboardLegacy)
	}
}
