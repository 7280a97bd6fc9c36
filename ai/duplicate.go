package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v2"
)

const duplicatePrompt = `You compare a new civic issue report against existing open reports.
Two reports are duplicates when they describe the same physical problem at the
same spot, even if worded or photographed differently.
Respond with a JSON object:
{"isDuplicate": boolean, "confidence": number between 0 and 1, "duplicateIssueId": string}.
Set duplicateIssueId to the id of the matched existing report, or omit it.`

// ExistingIssue is the minimized shape of an already-filed report handed to
// the model for comparison.
type ExistingIssue struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// DuplicateResult is the model's verdict on a candidate submission.
type DuplicateResult struct {
	IsDuplicate      bool    `json:"isDuplicate"`
	Confidence       float64 `json:"confidence"`
	DuplicateIssueID string  `json:"duplicateIssueId,omitempty"`
}

// Actionable reports whether the verdict should block or flag the submission.
// Only a positive verdict above the confidence threshold is acted on.
func (r DuplicateResult) Actionable(threshold float64) bool {
	return r.IsDuplicate && r.Confidence > threshold
}

// noDuplicate is the defined fallback when there is nothing to compare
// against. Not an error path.
func noDuplicate() *DuplicateResult {
	return &DuplicateResult{IsDuplicate: false, Confidence: 0}
}

// DetectDuplicate compares the new report against existingIssueData, a
// serialized JSON array of ExistingIssue. An empty or non-parseable list
// short-circuits to {isDuplicate:false, confidence:0} without invoking the
// model. A model failure is returned to the caller, who allows the
// submission with an analysis-incomplete note.
func (s *Service) DetectDuplicate(ctx context.Context, photo Photo, location, description, existingIssueData string) (*DuplicateResult, error) {
	if existingIssueData == "" {
		return noDuplicate(), nil
	}

	var existing []ExistingIssue
	if err := json.Unmarshal([]byte(existingIssueData), &existing); err != nil || len(existing) == 0 {
		return noDuplicate(), nil
	}

	serialized, err := json.Marshal(existing)
	if err != nil {
		return noDuplicate(), nil
	}

	userText := fmt.Sprintf(
		"New report at %s.\nDescription: %s\nExisting reports:\n%s",
		location, description, serialized,
	)

	content, err := s.completeJSON(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(duplicatePrompt),
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(userText),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: photo.DataURI(),
			}),
		}),
	})
	if err != nil {
		return nil, err
	}

	var result DuplicateResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("malformed duplicate response: %w", err)
	}
	return &result, nil
}

// Threshold exposes the configured confidence threshold to call sites.
func (s *Service) Threshold() float64 {
	return s.config.DuplicateThreshold
}
