package controllers

import (
	"context"
	"net/http"
	"time"

	"civiclens-be/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkerController serves read-only worker lookups. Workers are provisioned
// out-of-band; there is no create/update surface here.
type WorkerController struct {
	Repo *repository.IssueRepository
}

func NewWorkerController(repo *repository.IssueRepository) *WorkerController {
	return &WorkerController{Repo: repo}
}

// ListWorkers returns all provisioned workers
func (wc *WorkerController) ListWorkers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	workers, err := wc.Repo.ListWorkers(ctx)
	if err != nil {
		respondRepoError(c, err, "retrieve workers")
		return
	}

	c.JSON(http.StatusOK, workers)
}

// GetWorker retrieves a worker by ID
func (wc *WorkerController) GetWorker(c *gin.Context) {
	workerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	worker, err := wc.Repo.GetWorkerByID(ctx, workerID)
	if err != nil {
		respondRepoError(c, err, "retrieve worker")
		return
	}

	c.JSON(http.StatusOK, worker)
}
