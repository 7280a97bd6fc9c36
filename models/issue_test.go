package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStatusOrdering(t *testing.T) {
	testCases := []struct {
		name string
		s    IssueStatus
		o    IssueStatus
		want bool
	}{
		{"submitted at or after itself", Submitted, Submitted, true},
		{"in progress after submitted", InProgress, Submitted, true},
		{"resolved after in progress", Resolved, InProgress, true},
		{"submitted not after in progress", Submitted, InProgress, false},
		{"in progress not after resolved", InProgress, Resolved, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.s.AtOrAfter(tc.o))
		})
	}
}

func TestValidCategoryDisjointSets(t *testing.T) {
	assert.True(t, ValidCategory(Road, false))
	assert.True(t, ValidCategory(GasLeak, true))

	// emergency flag selects the emergency set exclusively
	assert.False(t, ValidCategory(Road, true))
	assert.False(t, ValidCategory(GasLeak, false))
	assert.False(t, ValidCategory("Graffiti", false))
}

func TestDeriveTitle(t *testing.T) {
	at := time.Date(2026, time.March, 7, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "Water Report - Mar 7, 2026", DeriveTitle(Water, at))
}

func timelineIssue(statuses ...IssueStatus) *Issue {
	now := time.Now()
	issue := &Issue{
		ID:          primitive.NewObjectID(),
		SubmittedAt: now,
	}
	for i, s := range statuses {
		issue.Updates = append(issue.Updates, IssueUpdate{
			Status:      s,
			UpdatedAt:   now.Add(time.Duration(i) * time.Minute),
			Description: "entry",
		})
	}
	if len(statuses) > 0 {
		issue.Status = statuses[len(statuses)-1]
	}
	return issue
}

func TestValidateTimeline(t *testing.T) {
	t.Run("fresh issue", func(t *testing.T) {
		issue := timelineIssue(Submitted)
		require.NoError(t, issue.ValidateTimeline())
	})

	t.Run("full lifecycle", func(t *testing.T) {
		issue := timelineIssue(Submitted, InProgress, InProgress, Resolved)
		require.NoError(t, issue.ValidateTimeline())
	})

	t.Run("empty timeline", func(t *testing.T) {
		issue := &Issue{ID: primitive.NewObjectID(), Status: Submitted}
		assert.Error(t, issue.ValidateTimeline())
	})

	t.Run("first entry not submitted", func(t *testing.T) {
		issue := timelineIssue(InProgress, Resolved)
		assert.Error(t, issue.ValidateTimeline())
	})

	t.Run("backward entry", func(t *testing.T) {
		issue := timelineIssue(Submitted, Resolved, InProgress)
		assert.Error(t, issue.ValidateTimeline())
	})

	t.Run("status drifted from last entry", func(t *testing.T) {
		issue := timelineIssue(Submitted, InProgress)
		issue.Status = Resolved
		assert.Error(t, issue.ValidateTimeline())
	})
}

func TestNewSubmissionUpdate(t *testing.T) {
	at := time.Now()
	upd := NewSubmissionUpdate("pothole near the bus stop", at)
	assert.Equal(t, Submitted, upd.Status)
	assert.Equal(t, at, upd.UpdatedAt)
	assert.Nil(t, upd.ImageURL)
}
