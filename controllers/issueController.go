package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"civiclens-be/ai"
	"civiclens-be/models"
	"civiclens-be/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueController serves the issue lifecycle endpoints. Repository and AI
// service are injected explicitly; handlers never reach for ambient state
// beyond the auth context.
type IssueController struct {
	Repo *repository.IssueRepository
	AI   *ai.Service
}

func NewIssueController(repo *repository.IssueRepository, aiService *ai.Service) *IssueController {
	return &IssueController{Repo: repo, AI: aiService}
}

func respondRepoError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
	case errors.Is(err, repository.ErrInvalidCategory),
		errors.Is(err, repository.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrBackwardTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Status cannot move backward"})
	default:
		log.Printf("Error during %s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op})
	}
}

func readPhoto(header *multipart.FileHeader) (*repository.Photo, []byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	photo := &repository.Photo{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        bytes.NewReader(data),
	}
	return photo, data, nil
}

// CreateIssue handles the submission flow: clarity gate, duplicate gate,
// then persistence. An AI failure never blocks the report; the response
// carries an analysis-incomplete note instead.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var input struct {
		Description string  `form:"description" binding:"required,max=1000"`
		Category    string  `form:"category" binding:"required"`
		Latitude    float64 `form:"latitude" binding:"required"`
		Longitude   float64 `form:"longitude" binding:"required"`
		IsEmergency bool    `form:"isEmergency"`
		ImageHint   string  `form:"imageHint" binding:"max=200"`
	}

	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.IssueCategory(input.Category)
	if !models.ValidCategory(category, input.IsEmergency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A photo is required"})
		return
	}

	photo, photoData, err := readPhoto(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read photo"})
		return
	}
	photo.Hint = input.ImageHint

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	aiPhoto := ai.Photo{ContentType: photo.ContentType, Data: photoData}
	analysisIncomplete := false

	// Clarity gate. Must pass before duplicate detection is attempted.
	clarity, err := ic.AI.CheckClarity(ctx, aiPhoto)
	if err != nil {
		log.Printf("Clarity check unavailable: %v", err)
		analysisIncomplete = true
	} else if !clarity.IsClear {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Photo is not clear enough",
			"reason": clarity.Reason,
		})
		return
	}

	// Duplicate gate.
	if !analysisIncomplete {
		location := fmt.Sprintf("%f,%f", input.Latitude, input.Longitude)
		dup, err := ic.AI.DetectDuplicate(ctx, aiPhoto, location, input.Description, ic.existingIssueData(ctx))
		if err != nil {
			log.Printf("Duplicate detection unavailable: %v", err)
			analysisIncomplete = true
		} else if dup.Actionable(ic.AI.Threshold()) {
			c.JSON(http.StatusConflict, gin.H{
				"error":            "This issue appears to be already reported",
				"duplicateIssueId": dup.DuplicateIssueID,
				"confidence":       dup.Confidence,
			})
			return
		}
	}

	issue, err := ic.Repo.CreateIssue(ctx, repository.CreateIssueInput{
		Description: input.Description,
		Category:    category,
		Location:    models.GeoPoint{Latitude: input.Latitude, Longitude: input.Longitude},
		Photo:       *photo,
		Submitter:   user.Snapshot(),
		IsEmergency: input.IsEmergency,
	})
	if err != nil {
		respondRepoError(c, err, "create issue")
		return
	}

	response := gin.H{"issue": issue}
	if analysisIncomplete {
		response["note"] = "Submission accepted, photo analysis was incomplete"
	}
	c.JSON(http.StatusCreated, response)
}

// existingIssueData serializes the current collection for duplicate
// detection. Any failure yields an empty payload, which the adapter treats
// as nothing to compare against.
func (ic *IssueController) existingIssueData(ctx context.Context) string {
	issues, err := ic.Repo.ListAllIssues(ctx)
	if err != nil {
		log.Printf("Could not load issues for duplicate detection: %v", err)
		return ""
	}

	existing := make([]ai.ExistingIssue, 0, len(issues))
	for _, issue := range issues {
		existing = append(existing, ai.ExistingIssue{
			ID:          issue.ID.Hex(),
			Description: issue.Description,
			ImageURL:    issue.ImageURL,
		})
	}
	if len(existing) == 0 {
		return ""
	}

	data, err := json.Marshal(existing)
	if err != nil {
		return ""
	}
	return string(data)
}

// GetIssue retrieves an issue by its ID
func (ic *IssueController) GetIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.Repo.GetIssueByID(ctx, issueID)
	if err != nil {
		respondRepoError(c, err, "retrieve issue")
		return
	}

	c.JSON(http.StatusOK, issue)
}

// ListAllIssues returns the full collection for the admin dashboard.
func (ic *IssueController) ListAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.Repo.ListAllIssues(ctx)
	if err != nil {
		respondRepoError(c, err, "retrieve issues")
		return
	}

	c.JSON(http.StatusOK, issues)
}

// ListMyIssues returns the authenticated citizen's own reports.
func (ic *IssueController) ListMyIssues(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.Repo.ListIssuesBySubmitter(ctx, userID.(string))
	if err != nil {
		respondRepoError(c, err, "retrieve issues")
		return
	}

	c.JSON(http.StatusOK, issues)
}

// ListAssignedIssues returns the issues assigned to one worker.
func (ic *IssueController) ListAssignedIssues(c *gin.Context) {
	workerID, err := primitive.ObjectIDFromHex(c.Param("workerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.Repo.ListIssuesByAssignee(ctx, workerID)
	if err != nil {
		respondRepoError(c, err, "retrieve issues")
		return
	}

	c.JSON(http.StatusOK, issues)
}

// AssignWorker sets the assignee. A Submitted issue auto-advances to
// In Progress with one timeline entry; re-assignment never appends another.
func (ic *IssueController) AssignWorker(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		WorkerID string `json:"workerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workerID, err := primitive.ObjectIDFromHex(input.WorkerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := ic.Repo.GetWorkerByID(ctx, workerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
			return
		}
		respondRepoError(c, err, "assign worker")
		return
	}

	if err := ic.Repo.AssignWorker(ctx, issueID, workerID); err != nil {
		respondRepoError(c, err, "assign worker")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Worker assigned successfully"})
}

// AppendUpdate appends a timeline entry and moves the status forward.
// Reopening (a backward transition) is reserved for admins via the
// allowReopen field.
func (ic *IssueController) AppendUpdate(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Status      string `form:"status" binding:"required"`
		Description string `form:"description" binding:"required,max=1000"`
		ImageHint   string `form:"imageHint" binding:"max=200"`
		AllowReopen bool   `form:"allowReopen"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.IssueStatus(input.Status)
	if !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	// Only admins and heads can reopen
	if input.AllowReopen {
		roleVal, _ := c.Get("role")
		role, _ := roleVal.(models.Role)
		if role != models.Admin && role != models.Head {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can reopen issues"})
			return
		}
	}

	updateInput := repository.AppendUpdateInput{
		Status:      status,
		Description: input.Description,
		AllowReopen: input.AllowReopen,
	}

	if fileHeader, err := c.FormFile("photo"); err == nil {
		photo, _, err := readPhoto(fileHeader)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read photo"})
			return
		}
		photo.Hint = input.ImageHint
		updateInput.Photo = photo
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	issue, err := ic.Repo.AppendUpdate(ctx, issueID, updateInput)
	if err != nil {
		respondRepoError(c, err, "append update")
		return
	}

	c.JSON(http.StatusOK, issue)
}
