package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum (ordinary reports)
type IssueCategory string

const (
	Road        IssueCategory = "Road"
	Water       IssueCategory = "Water"
	Sanitation  IssueCategory = "Sanitation"
	Electricity IssueCategory = "Electricity"
	Streetlight IssueCategory = "Streetlight"
	Other       IssueCategory = "Other"
)

// Emergency categories are a disjoint set, only valid when IsEmergency is set
const (
	FireHazard     IssueCategory = "Fire Hazard"
	GasLeak        IssueCategory = "Gas Leak"
	Flooding       IssueCategory = "Flooding"
	LiveWire       IssueCategory = "Live Wire"
	RoadCollapse   IssueCategory = "Road Collapse"
	SewageOverflow IssueCategory = "Sewage Overflow"
)

var ordinaryCategories = map[IssueCategory]bool{
	Road: true, Water: true, Sanitation: true,
	Electricity: true, Streetlight: true, Other: true,
}

var emergencyCategories = map[IssueCategory]bool{
	FireHazard: true, GasLeak: true, Flooding: true,
	LiveWire: true, RoadCollapse: true, SewageOverflow: true,
}

// ValidCategory reports whether category belongs to the set selected by
// isEmergency. The two sets are disjoint: an emergency issue cannot carry an
// ordinary category and vice versa.
func ValidCategory(category IssueCategory, isEmergency bool) bool {
	if isEmergency {
		return emergencyCategories[category]
	}
	return ordinaryCategories[category]
}

// IssueStatus enum
type IssueStatus string

const (
	Submitted  IssueStatus = "Submitted"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
)

var statusRank = map[IssueStatus]int{
	Submitted:  0,
	InProgress: 1,
	Resolved:   2,
}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s IssueStatus) bool {
	_, ok := statusRank[s]
	return ok
}

// AtOrAfter reports whether s is equal to or later than other in the
// Submitted -> In Progress -> Resolved ordering.
func (s IssueStatus) AtOrAfter(other IssueStatus) bool {
	return statusRank[s] >= statusRank[other]
}

// GeoPoint is the submission location, captured once at creation time.
type GeoPoint struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Submitter is a snapshot of the reporting user at submission time.
// Later profile edits do not retroactively change historical issues.
type Submitter struct {
	UID   string `bson:"uid" json:"uid"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// IssueUpdate is one entry of an issue's append-only status timeline.
type IssueUpdate struct {
	Status      IssueStatus `bson:"status" json:"status"`
	UpdatedAt   time.Time   `bson:"updatedAt" json:"updatedAt"`
	Description string      `bson:"description" json:"description"`
	ImageURL    *string     `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImageHint   *string     `bson:"imageHint,omitempty" json:"imageHint,omitempty"`
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Category    IssueCategory       `bson:"category" json:"category"`
	Status      IssueStatus         `bson:"status" json:"status"`
	Location    GeoPoint            `bson:"location" json:"location"`
	ImageURL    string              `bson:"imageUrl" json:"imageUrl"`
	ImageHint   string              `bson:"imageHint,omitempty" json:"imageHint,omitempty"`
	SubmittedBy Submitter           `bson:"submittedBy" json:"submittedBy"`
	SubmittedAt time.Time           `bson:"submittedAt" json:"submittedAt"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	IsEmergency bool                `bson:"isEmergency" json:"isEmergency"`
	Updates     []IssueUpdate       `bson:"updates" json:"updates"`
}

// DeriveTitle builds the issue title from its category and submission date.
func DeriveTitle(category IssueCategory, submittedAt time.Time) string {
	return fmt.Sprintf("%s Report - %s", category, submittedAt.Format("Jan 2, 2006"))
}

// NewSubmissionUpdate seeds the timeline for a freshly created issue.
// The first entry always carries the Submitted status.
func NewSubmissionUpdate(description string, submittedAt time.Time) IssueUpdate {
	return IssueUpdate{
		Status:      Submitted,
		UpdatedAt:   submittedAt,
		Description: description,
	}
}

// ValidateTimeline checks the timeline invariants: the first entry is
// Submitted, entries never move backward in status order, and the issue's
// current status equals the status of the last entry.
func (i *Issue) ValidateTimeline() error {
	if len(i.Updates) == 0 {
		return fmt.Errorf("issue %s has an empty timeline", i.ID.Hex())
	}
	if i.Updates[0].Status != Submitted {
		return fmt.Errorf("issue %s timeline does not start at %s", i.ID.Hex(), Submitted)
	}
	for idx := 1; idx < len(i.Updates); idx++ {
		if !i.Updates[idx].Status.AtOrAfter(i.Updates[idx-1].Status) {
			return fmt.Errorf("issue %s timeline moves backward at entry %d", i.ID.Hex(), idx)
		}
	}
	if last := i.Updates[len(i.Updates)-1].Status; i.Status != last {
		return fmt.Errorf("issue %s status %q does not match last timeline entry %q", i.ID.Hex(), i.Status, last)
	}
	return nil
}
