package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v2"
)

const clarityPrompt = `You are reviewing a photo attached to a civic issue report.
Judge whether the photo is clear enough for a municipal worker to understand
the problem: in focus, adequately lit, and showing the reported subject.
Respond with a JSON object: {"isClear": boolean, "reason": string}.
The reason is required when isClear is false and should tell the citizen, in
one sentence, how to take a better photo.`

// ClarityResult is the model's verdict on a submitted photo.
type ClarityResult struct {
	IsClear bool   `json:"isClear"`
	Reason  string `json:"reason,omitempty"`
}

// CheckClarity asks the model whether the photo is usable. It is a gate that
// runs before duplicate detection; callers treat any returned error as
// "analysis incomplete, allow submission".
func (s *Service) CheckClarity(ctx context.Context, photo Photo) (*ClarityResult, error) {
	content, err := s.completeJSON(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(clarityPrompt),
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart("Assess this report photo."),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: photo.DataURI(),
			}),
		}),
	})
	if err != nil {
		return nil, err
	}

	var result ClarityResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("malformed clarity response: %w", err)
	}
	return &result, nil
}
