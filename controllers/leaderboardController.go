package controllers

import (
	"context"
	"net/http"
	"time"

	"civiclens-be/repository"
	"civiclens-be/scoring"

	"github.com/gin-gonic/gin"
)

// LeaderboardController recomputes rankings by scanning the full issue
// collection on each dashboard load. No caching; the scans are pure
// functions of what the repository returns.
type LeaderboardController struct {
	Repo *repository.IssueRepository
}

func NewLeaderboardController(repo *repository.IssueRepository) *LeaderboardController {
	return &LeaderboardController{Repo: repo}
}

// CitizenLeaderboard ranks citizens by gamification score.
func (lc *LeaderboardController) CitizenLeaderboard(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := lc.Repo.ListAllIssues(ctx)
	if err != nil {
		respondRepoError(c, err, "load leaderboard")
		return
	}

	ranked := scoring.RankCitizens(scoring.CitizenScores(issues))
	c.JSON(http.StatusOK, ranked)
}

// WorkerPerformance ranks workers by resolved count, ties in input order.
func (lc *LeaderboardController) WorkerPerformance(c *gin.Context) {
	stats, ok := lc.workerStats(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, scoring.RankWorkers(stats))
}

// WorkerLeaderboardLegacy serves the older dashboard: resolved count with
// open-count tie-break.
func (lc *LeaderboardController) WorkerLeaderboardLegacy(c *gin.Context) {
	stats, ok := lc.workerStats(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, scoring.RankWorkersLegacy(stats))
}

func (lc *LeaderboardController) workerStats(c *gin.Context) ([]scoring.WorkerStats, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	workers, err := lc.Repo.ListWorkers(ctx)
	if err != nil {
		respondRepoError(c, err, "load workers")
		return nil, false
	}

	issues, err := lc.Repo.ListAllIssues(ctx)
	if err != nil {
		respondRepoError(c, err, "load issues")
		return nil, false
	}

	return scoring.WorkerPerformance(workers, issues), true
}
