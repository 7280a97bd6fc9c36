package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"civiclens-be/ai"
	"civiclens-be/config"
	"civiclens-be/controllers"
	"civiclens-be/repository"
	"civiclens-be/routes"
	"civiclens-be/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := storage.NewClient(ctx, storage.LoadConfig())
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	repo := repository.NewIssueRepository(db, store)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Printf("Could not create indexes: %v", err)
	}

	aiService := ai.NewService(ai.LoadConfig())

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	routes.AuthRoutes(r)
	routes.IssueRoutes(r, controllers.NewIssueController(repo, aiService))
	routes.WorkerRoutes(r, controllers.NewWorkerController(repo))
	routes.LeaderboardRoutes(r, controllers.NewLeaderboardController(repo))
	routes.ChatRoutes(r, controllers.NewChatController(repo, aiService))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
