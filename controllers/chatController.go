package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"civiclens-be/ai"
	"civiclens-be/repository"

	"github.com/gin-gonic/gin"
)

// ChatController serves the conversational assistant. Each request carries
// the full turn history; nothing is kept server-side between calls.
type ChatController struct {
	Repo *repository.IssueRepository
	AI   *ai.Service
}

func NewChatController(repo *repository.IssueRepository, aiService *ai.Service) *ChatController {
	return &ChatController{Repo: repo, AI: aiService}
}

// Chat answers one user turn. The assistant can only look up issues
// submitted by the authenticated user; the binding happens here, not in the
// model.
func (cc *ChatController) Chat(c *gin.Context) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userID := userIDVal.(string)

	var input struct {
		History []ai.ChatTurn `json:"history"`
		Message string        `json:"message" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetch := func(ctx context.Context) ([]ai.IssueSummary, error) {
		issues, err := cc.Repo.ListIssuesBySubmitter(ctx, userID)
		if err != nil {
			return nil, err
		}
		summaries := make([]ai.IssueSummary, 0, len(issues))
		for _, issue := range issues {
			summaries = append(summaries, ai.IssueSummary{
				ID:          issue.ID.Hex(),
				Title:       issue.Title,
				Category:    string(issue.Category),
				Status:      string(issue.Status),
				SubmittedAt: issue.SubmittedAt,
			})
		}
		return summaries, nil
	}

	reply, err := cc.AI.Chat(ctx, userID, input.History, input.Message, fetch)
	if err != nil {
		log.Printf("Assistant call failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is unavailable right now"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
