package repository

import (
	"context"
	"io"
	"time"

	"civiclens-be/models"
	"civiclens-be/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IssueRepository owns persistence of issues and workers. The presentation
// layer never mutates documents directly, only through these operations.
type IssueRepository struct {
	issues  *mongo.Collection
	workers *mongo.Collection
	store   *storage.Client
}

// NewIssueRepository wires the repository to its collections and photo store.
func NewIssueRepository(db *mongo.Database, store *storage.Client) *IssueRepository {
	return &IssueRepository{
		issues:  db.Collection("issues"),
		workers: db.Collection("workers"),
		store:   store,
	}
}

// Photo is an uploaded image plus its descriptive hint.
type Photo struct {
	Filename    string
	ContentType string
	Data        io.Reader
	Hint        string
}

// CreateIssueInput carries everything needed to create an issue. The
// submitter snapshot is embedded as-is; later profile edits do not touch it.
type CreateIssueInput struct {
	Description string
	Category    models.IssueCategory
	Location    models.GeoPoint
	Photo       Photo
	Submitter   models.Submitter
	IsEmergency bool
}

// CreateIssue uploads the photo, derives the title, seeds the timeline with a
// Submitted entry and persists the issue. The photo upload completes before
// the document write that references its URL.
func (r *IssueRepository) CreateIssue(ctx context.Context, in CreateIssueInput) (*models.Issue, error) {
	if !models.ValidCategory(in.Category, in.IsEmergency) {
		return nil, ErrInvalidCategory
	}

	now := time.Now()
	key := storage.ObjectKey("issues", in.Photo.Filename, now)
	imageURL, err := r.store.Upload(ctx, key, in.Photo.ContentType, in.Photo.Data)
	if err != nil {
		return nil, storageErr("upload issue photo", err)
	}

	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       models.DeriveTitle(in.Category, now),
		Description: in.Description,
		Category:    in.Category,
		Status:      models.Submitted,
		Location:    in.Location,
		ImageURL:    imageURL,
		ImageHint:   in.Photo.Hint,
		SubmittedBy: in.Submitter,
		SubmittedAt: now,
		IsEmergency: in.IsEmergency,
		Updates:     []models.IssueUpdate{models.NewSubmissionUpdate(in.Description, now)},
	}

	if _, err := r.issues.InsertOne(ctx, issue); err != nil {
		return nil, storageErr("insert issue", err)
	}

	return &issue, nil
}

// ListAllIssues returns the full collection, no pagination, store ordering.
func (r *IssueRepository) ListAllIssues(ctx context.Context) ([]models.Issue, error) {
	return r.findIssues(ctx, bson.M{})
}

// GetIssueByID is a point lookup. Returns ErrNotFound for an absent document.
func (r *IssueRepository) GetIssueByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := r.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, storageErr("find issue", err)
	}
	return &issue, nil
}

// ListIssuesBySubmitter filters on the embedded submitter snapshot's uid.
func (r *IssueRepository) ListIssuesBySubmitter(ctx context.Context, uid string) ([]models.Issue, error) {
	return r.findIssues(ctx, bson.M{"submittedBy.uid": uid})
}

// ListIssuesByAssignee filters on the assigned worker id.
func (r *IssueRepository) ListIssuesByAssignee(ctx context.Context, workerID primitive.ObjectID) ([]models.Issue, error) {
	return r.findIssues(ctx, bson.M{"assignedTo": workerID})
}

// AssignWorker sets assignedTo. If the issue is still Submitted it also
// appends an In Progress timeline entry and advances the status in the same
// single-document write - assignment is the sole auto-advance trigger.
// Re-assigning an issue that already moved past Submitted only updates
// assignedTo, no extra timeline entry.
func (r *IssueRepository) AssignWorker(ctx context.Context, issueID, workerID primitive.ObjectID) error {
	issue, err := r.GetIssueByID(ctx, issueID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"assignedTo": workerID}}
	if entry := autoAdvanceOnAssign(issue.Status, time.Now()); entry != nil {
		update["$set"].(bson.M)["status"] = entry.Status
		update["$push"] = bson.M{"updates": entry}
	}

	if _, err := r.issues.UpdateOne(ctx, bson.M{"_id": issueID}, update); err != nil {
		return storageErr("assign worker", err)
	}
	return nil
}

// AppendUpdateInput carries one timeline mutation.
type AppendUpdateInput struct {
	Status      models.IssueStatus
	Description string
	Photo       *Photo
	// AllowReopen permits a backward transition, e.g. an admin reopening a
	// Resolved issue. Without it backward transitions are rejected.
	AllowReopen bool
}

// AppendUpdate optionally uploads a new photo, appends a timeline entry with
// the current timestamp, sets the issue status and returns the refreshed
// record. Callers must re-fetch before mutating; there is no concurrency
// token, last write wins.
func (r *IssueRepository) AppendUpdate(ctx context.Context, issueID primitive.ObjectID, in AppendUpdateInput) (*models.Issue, error) {
	issue, err := r.GetIssueByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if err := validateTransition(issue.Status, in.Status, in.AllowReopen); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := models.IssueUpdate{
		Status:      in.Status,
		UpdatedAt:   now,
		Description: in.Description,
	}

	if in.Photo != nil {
		key := storage.ObjectKey("updates", in.Photo.Filename, now)
		imageURL, err := r.store.Upload(ctx, key, in.Photo.ContentType, in.Photo.Data)
		if err != nil {
			return nil, storageErr("upload update photo", err)
		}
		entry.ImageURL = &imageURL
		if in.Photo.Hint != "" {
			hint := in.Photo.Hint
			entry.ImageHint = &hint
		}
	}

	update := bson.M{
		"$set":  bson.M{"status": in.Status},
		"$push": bson.M{"updates": entry},
	}
	if _, err := r.issues.UpdateOne(ctx, bson.M{"_id": issueID}, update); err != nil {
		return nil, storageErr("append update", err)
	}

	return r.GetIssueByID(ctx, issueID)
}

// ListWorkers returns all provisioned workers.
func (r *IssueRepository) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	cursor, err := r.workers.Find(ctx, bson.M{})
	if err != nil {
		return nil, storageErr("find workers", err)
	}
	defer cursor.Close(ctx)

	var workers []models.Worker
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, storageErr("decode workers", err)
	}
	return workers, nil
}

// GetWorkerByID is a point lookup on the workers collection.
func (r *IssueRepository) GetWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error) {
	var worker models.Worker
	err := r.workers.FindOne(ctx, bson.M{"_id": id}).Decode(&worker)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, storageErr("find worker", err)
	}
	return &worker, nil
}

// EnsureIndexes creates the equality-filter indexes the dashboards query on.
func (r *IssueRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "submittedBy.uid", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
	}
	if _, err := r.issues.Indexes().CreateMany(ctx, indexes); err != nil {
		return storageErr("create issue indexes", err)
	}
	return nil
}

func (r *IssueRepository) findIssues(ctx context.Context, filter bson.M) ([]models.Issue, error) {
	cursor, err := r.issues.Find(ctx, filter)
	if err != nil {
		return nil, storageErr("find issues", err)
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, storageErr("decode issues", err)
	}
	return issues, nil
}
