// Package scoring derives the gamification leaderboards from the issue
// collection. Every function here is pure: re-running on an unchanged
// collection yields an identical ranking.
package scoring

import (
	"sort"

	"civiclens-be/models"
)

// Score points
const (
	resolvedPoints  = 10
	submittedPoints = 3
	emergencyBonus  = 5
)

// CitizenScore is one citizen's leaderboard row.
type CitizenScore struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	ReportCount int    `json:"reportCount"`
	Score       int    `json:"score"`
}

// CitizenScores accumulates per-submitter scores over the full issue
// collection. Each issue is worth 10 points when Resolved, otherwise 3, plus
// a 5 point emergency bonus regardless of status. Citizens appear in
// first-encounter order.
func CitizenScores(issues []models.Issue) []CitizenScore {
	index := make(map[string]int)
	var scores []CitizenScore

	for _, issue := range issues {
		uid := issue.SubmittedBy.UID
		pos, seen := index[uid]
		if !seen {
			pos = len(scores)
			index[uid] = pos
			scores = append(scores, CitizenScore{UID: uid, Name: issue.SubmittedBy.Name})
		}

		scores[pos].ReportCount++
		if issue.Status == models.Resolved {
			scores[pos].Score += resolvedPoints
		} else {
			scores[pos].Score += submittedPoints
		}
		if issue.IsEmergency {
			scores[pos].Score += emergencyBonus
		}
	}

	return scores
}

// RankCitizens orders scores descending. Ties keep encounter order.
func RankCitizens(scores []CitizenScore) []CitizenScore {
	ranked := make([]CitizenScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// WorkerStats is one worker's performance row.
type WorkerStats struct {
	WorkerID        string `json:"workerId"`
	Name            string `json:"name"`
	Area            string `json:"area"`
	AssignedCount   int    `json:"assignedCount"`
	ResolvedCount   int    `json:"resolvedCount"`
	InProgressCount int    `json:"inProgressCount"`
}

// OpenCount is the number of assigned issues not yet resolved.
func (s WorkerStats) OpenCount() int {
	return s.AssignedCount - s.ResolvedCount
}

// WorkerPerformance counts assigned, resolved and in-progress issues per
// worker. Workers appear in the order given, including workers with no
// assignments.
func WorkerPerformance(workers []models.Worker, issues []models.Issue) []WorkerStats {
	stats := make([]WorkerStats, len(workers))
	index := make(map[string]int, len(workers))
	for i, w := range workers {
		stats[i] = WorkerStats{WorkerID: w.ID.Hex(), Name: w.Name, Area: w.Area}
		index[w.ID.Hex()] = i
	}

	for _, issue := range issues {
		if issue.AssignedTo == nil {
			continue
		}
		pos, ok := index[issue.AssignedTo.Hex()]
		if !ok {
			continue
		}
		stats[pos].AssignedCount++
		switch issue.Status {
		case models.Resolved:
			stats[pos].ResolvedCount++
		case models.InProgress:
			stats[pos].InProgressCount++
		}
	}

	return stats
}

// RankWorkers orders stats by resolved count descending. Ties keep the input
// order, no secondary key.
func RankWorkers(stats []WorkerStats) []WorkerStats {
	ranked := make([]WorkerStats, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ResolvedCount > ranked[j].ResolvedCount
	})
	return ranked
}

// RankWorkersLegacy is the older leaderboard policy: resolved count
// descending, open count ascending as tie-break. Kept as a distinct policy
// alongside RankWorkers; the two are consumed by different dashboards.
func RankWorkersLegacy(stats []WorkerStats) []WorkerStats {
	ranked := make([]WorkerStats, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ResolvedCount != ranked[j].ResolvedCount {
			return ranked[i].ResolvedCount > ranked[j].ResolvedCount
		}
		return ranked[i].OpenCount() < ranked[j].OpenCount()
	})
	return ranked
}
