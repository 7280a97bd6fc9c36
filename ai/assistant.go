package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openai/openai-go/v2"
)

// AssistantInstructions is the assistant's full behavioral contract. The
// bound user id is interpolated once per session; everything else the
// assistant may or may not do is encoded here, not in code.
const AssistantInstructions = `You are CivicLens Assistant, the status helpdesk for a civic issue
reporting service. You are talking to the citizen with user id %s.

What you do:
- Answer questions about the citizen's own reported issues: their status,
  category, submission date and timeline. Use the get_user_issues tool to
  look them up; never answer from memory.
- Explain the reporting process: Submitted means the report is filed,
  In Progress means a field worker is assigned, Resolved means the work is
  done.

What you must not do:
- Never invent issues, statuses or dates. If the tool returns no matching
  issue, say so.
- Never promise a resolution date or speak for the municipality.
- Never discuss other citizens' reports.

Scope: Road, Water, Sanitation, Electricity and Streetlight issues, plus
emergency reports filed through this service. For anything outside that
scope, direct the citizen to the right helpline instead of answering:
- Police emergencies: 100
- Fire: 101
- Ambulance: 102
- General municipal helpline: 1533
Keep answers short and factual.`

// ChatTurn is one role-tagged turn of the conversation. Role is "user" or
// "model". The runtime is stateless between calls: the full history is
// resent every time.
type ChatTurn struct {
	Role string `json:"role" binding:"required,oneof=user model"`
	Text string `json:"text" binding:"required"`
}

// IssueSummary is the minimized issue shape handed to the model, not the
// full record.
type IssueSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// IssueFetcher loads the bound user's issues when the model asks for them.
type IssueFetcher func(ctx context.Context) ([]IssueSummary, error)

const userIssuesTool = "get_user_issues"

// toolCallRounds caps the fetch-respond loop; one tool round is the normal
// case.
const toolCallRounds = 3

// Chat runs one assistant turn. The user id is bound into the system
// instructions for the whole session; the model can only ever fetch that
// user's issues.
func (s *Service) Chat(ctx context.Context, userID string, history []ChatTurn, message string, fetch IssueFetcher) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(fmt.Sprintf(AssistantInstructions, userID)),
	}
	for _, turn := range history {
		if turn.Role == "model" {
			messages = append(messages, openai.AssistantMessage(turn.Text))
		} else {
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	tools := []openai.ChatCompletionToolUnionParam{
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        userIssuesTool,
			Description: openai.String("Fetch all issues submitted by the current user as a JSON array of {id, title, category, status, submittedAt}."),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{},
			},
		}),
	}

	for round := 0; round < toolCallRounds; round++ {
		resp, err := s.chat.New(ctx, openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(s.config.Model),
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("model returned no choices")
		}

		reply := resp.Choices[0].Message
		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		messages = append(messages, reply.ToParam())
		for _, call := range reply.ToolCalls {
			if call.Function.Name != userIssuesTool {
				messages = append(messages, openai.ToolMessage(`{"error":"unknown tool"}`, call.ID))
				continue
			}
			payload, err := s.fetchIssuesPayload(ctx, fetch)
			if err != nil {
				return "", err
			}
			messages = append(messages, openai.ToolMessage(payload, call.ID))
		}
	}

	return "", fmt.Errorf("model did not produce a final answer")
}

func (s *Service) fetchIssuesPayload(ctx context.Context, fetch IssueFetcher) (string, error) {
	summaries, err := fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("issue lookup failed: %w", err)
	}
	if summaries == nil {
		summaries = []IssueSummary{}
	}
	payload, err := json.Marshal(summaries)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
