package repository

import (
	"testing"
	"time"

	"civiclens-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoAdvanceOnAssign(t *testing.T) {
	now := time.Now()

	t.Run("submitted issue advances", func(t *testing.T) {
		entry := autoAdvanceOnAssign(models.Submitted, now)
		require.NotNil(t, entry)
		assert.Equal(t, models.InProgress, entry.Status)
		assert.Equal(t, now, entry.UpdatedAt)
	})

	t.Run("already in progress does not advance again", func(t *testing.T) {
		assert.Nil(t, autoAdvanceOnAssign(models.InProgress, now))
	})

	t.Run("resolved issue untouched", func(t *testing.T) {
		assert.Nil(t, autoAdvanceOnAssign(models.Resolved, now))
	})
}

func TestValidateTransition(t *testing.T) {
	testCases := []struct {
		name        string
		current     models.IssueStatus
		next        models.IssueStatus
		allowReopen bool
		wantErr     error
	}{
		{"forward submitted to in progress", models.Submitted, models.InProgress, false, nil},
		{"forward in progress to resolved", models.InProgress, models.Resolved, false, nil},
		{"same status allowed", models.InProgress, models.InProgress, false, nil},
		{"backward rejected", models.Resolved, models.InProgress, false, ErrBackwardTransition},
		{"backward to submitted rejected", models.InProgress, models.Submitted, false, ErrBackwardTransition},
		{"reopen permits backward", models.Resolved, models.InProgress, true, nil},
		{"unknown status rejected", models.Submitted, "Closed", false, ErrInvalidStatus},
		{"unknown status rejected even with reopen", models.Submitted, "Closed", true, ErrInvalidStatus},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTransition(tc.current, tc.next, tc.allowReopen)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
