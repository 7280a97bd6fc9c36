package scoring

import (
	"testing"

	"civiclens-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func issueFor(uid string, status models.IssueStatus, emergency bool) models.Issue {
	return models.Issue{
		ID:          primitive.NewObjectID(),
		Status:      status,
		IsEmergency: emergency,
		SubmittedBy: models.Submitter{UID: uid, Name: "citizen " + uid},
	}
}

func assignedIssue(worker primitive.ObjectID, status models.IssueStatus) models.Issue {
	return models.Issue{
		ID:         primitive.NewObjectID(),
		Status:     status,
		AssignedTo: &worker,
	}
}

func TestCitizenScores(t *testing.T) {
	t.Run("single resolved issue", func(t *testing.T) {
		scores := CitizenScores([]models.Issue{
			issueFor("u1", models.Resolved, false),
		})
		require.Len(t, scores, 1)
		assert.Equal(t, 10, scores[0].Score)
		assert.Equal(t, 1, scores[0].ReportCount)
	})

	t.Run("emergency submission adds bonus on top of base points", func(t *testing.T) {
		scores := CitizenScores([]models.Issue{
			issueFor("u1", models.Resolved, false),
			issueFor("u1", models.Submitted, true),
		})
		require.Len(t, scores, 1)
		assert.Equal(t, 18, scores[0].Score)
		assert.Equal(t, 2, scores[0].ReportCount)
	})

	t.Run("emergency bonus applies regardless of status", func(t *testing.T) {
		scores := CitizenScores([]models.Issue{
			issueFor("u1", models.Resolved, true),
		})
		require.Len(t, scores, 1)
		assert.Equal(t, 15, scores[0].Score)
	})

	t.Run("citizens keep encounter order", func(t *testing.T) {
		scores := CitizenScores([]models.Issue{
			issueFor("u2", models.Submitted, false),
			issueFor("u1", models.Submitted, false),
			issueFor("u2", models.InProgress, false),
		})
		require.Len(t, scores, 2)
		assert.Equal(t, "u2", scores[0].UID)
		assert.Equal(t, 6, scores[0].Score)
		assert.Equal(t, "u1", scores[1].UID)
	})
}

func TestRankCitizens(t *testing.T) {
	scores := []CitizenScore{
		{UID: "a", Score: 3},
		{UID: "b", Score: 18},
		{UID: "c", Score: 3},
	}

	ranked := RankCitizens(scores)
	assert.Equal(t, "b", ranked[0].UID)
	// ties keep encounter order
	assert.Equal(t, "a", ranked[1].UID)
	assert.Equal(t, "c", ranked[2].UID)
	// input untouched
	assert.Equal(t, "a", scores[0].UID)
}

func TestWorkerPerformance(t *testing.T) {
	w1 := models.Worker{ID: primitive.NewObjectID(), Name: "W1"}
	w2 := models.Worker{ID: primitive.NewObjectID(), Name: "W2"}

	issues := []models.Issue{
		assignedIssue(w1.ID, models.Resolved),
		assignedIssue(w1.ID, models.InProgress),
		assignedIssue(w2.ID, models.Resolved),
		issueFor("u1", models.Submitted, false), // unassigned, ignored
	}

	stats := WorkerPerformance([]models.Worker{w1, w2}, issues)
	require.Len(t, stats, 2)
	assert.Equal(t, 2, stats[0].AssignedCount)
	assert.Equal(t, 1, stats[0].ResolvedCount)
	assert.Equal(t, 1, stats[0].InProgressCount)
	assert.Equal(t, 1, stats[1].AssignedCount)
	assert.Equal(t, 1, stats[1].ResolvedCount)
	assert.Equal(t, 0, stats[1].InProgressCount)
}

func TestWorkerRankingTieBreaks(t *testing.T) {
	// W1: 3 resolved, 1 in progress. W2: 3 resolved, nothing open.
	w1 := WorkerStats{WorkerID: "w1", AssignedCount: 4, ResolvedCount: 3, InProgressCount: 1}
	w2 := WorkerStats{WorkerID: "w2", AssignedCount: 3, ResolvedCount: 3}

	t.Run("primary ranking is stable on ties", func(t *testing.T) {
		ranked := RankWorkers([]WorkerStats{w1, w2})
		// no secondary key: only assert order is preserved, not a winner
		assert.Equal(t, "w1", ranked[0].WorkerID)
		assert.Equal(t, "w2", ranked[1].WorkerID)
	})

	t.Run("legacy ranking breaks ties by open count ascending", func(t *testing.T) {
		ranked := RankWorkersLegacy([]WorkerStats{w1, w2})
		assert.Equal(t, "w2", ranked[0].WorkerID)
		assert.Equal(t, "w1", ranked[1].WorkerID)
	})

	t.Run("resolved count dominates open count", func(t *testing.T) {
		w3 := WorkerStats{WorkerID: "w3", AssignedCount: 10, ResolvedCount: 5, InProgressCount: 5}
		ranked := RankWorkersLegacy([]WorkerStats{w1, w3})
		assert.Equal(t, "w3", ranked[0].WorkerID)
	})
}

func TestScoringIdempotence(t *testing.T) {
	w := models.Worker{ID: primitive.NewObjectID(), Name: "W"}
	issues := []models.Issue{
		issueFor("u1", models.Resolved, true),
		issueFor("u2", models.Submitted, false),
		assignedIssue(w.ID, models.Resolved),
		assignedIssue(w.ID, models.InProgress),
	}

	first := RankCitizens(CitizenScores(issues))
	second := RankCitizens(CitizenScores(issues))
	assert.Equal(t, first, second)

	firstW := RankWorkersLegacy(WorkerPerformance([]models.Worker{w}, issues))
	secondW := RankWorkersLegacy(WorkerPerformance([]models.Worker{w}, issues))
	assert.Equal(t, firstW, secondW)
}
