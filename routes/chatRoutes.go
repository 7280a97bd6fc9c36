package routes

import (
	"civiclens-be/controllers"
	"civiclens-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ChatRoutes sets up the assistant endpoint
func ChatRoutes(r *gin.Engine, cc *controllers.ChatController) {
	r.POST("/api/chat", middlewares.AuthMiddleware(), cc.Chat)
}
