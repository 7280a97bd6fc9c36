package repository

import (
	"time"

	"civiclens-be/models"
)

// autoAdvanceOnAssign returns the timeline entry assignment should append, or
// nil when the issue already moved past Submitted. Assignment is the only
// operation that advances status on its own.
func autoAdvanceOnAssign(current models.IssueStatus, now time.Time) *models.IssueUpdate {
	if current != models.Submitted {
		return nil
	}
	return &models.IssueUpdate{
		Status:      models.InProgress,
		UpdatedAt:   now,
		Description: "Assigned to a field worker",
	}
}

// validateTransition enforces the forward-only status order for appended
// updates. allowReopen relaxes the check for the explicit reopen flow.
func validateTransition(current, next models.IssueStatus, allowReopen bool) error {
	if !models.ValidStatus(next) {
		return ErrInvalidStatus
	}
	if !next.AtOrAfter(current) && !allowReopen {
		return ErrBackwardTransition
	}
	return nil
}
