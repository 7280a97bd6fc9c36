// Package ai holds the narrow request/response contracts against the hosted
// model: the image clarity gate, duplicate-issue detection and the
// conversational status assistant. The model itself is an external
// collaborator; this package owns only the contracts.
package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// DefaultDuplicateThreshold is the confidence above which a duplicate verdict
// blocks a submission. Policy constant, not model output.
const DefaultDuplicateThreshold = 0.8

// Config holds the hosted-model settings, read from env.
type Config struct {
	APIKey             string
	BaseURL            string
	Model              string
	DuplicateThreshold float64
}

// LoadConfig reads the AI configuration from the environment.
func LoadConfig() Config {
	cfg := Config{
		APIKey:             os.Getenv("AI_API_KEY"),
		BaseURL:            os.Getenv("AI_BASE_URL"),
		Model:              os.Getenv("AI_MODEL"),
		DuplicateThreshold: DefaultDuplicateThreshold,
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.ChatModelGPT4o)
	}
	if raw := os.Getenv("AI_DUPLICATE_THRESHOLD"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.DuplicateThreshold = v
		}
	}
	return cfg
}

// completionClient is the slice of the OpenAI client the adapters need.
// Narrowed to an interface so adapter fallbacks are testable offline.
type completionClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Service exposes the three model adapters.
type Service struct {
	chat   completionClient
	config Config
}

// NewService builds the service around a real OpenAI-compatible client.
func NewService(cfg Config) *Service {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &Service{chat: &client.Chat.Completions, config: cfg}
}

// Photo is a self-describing image blob handed to the model.
type Photo struct {
	ContentType string
	Data        []byte
}

// DataURI renders the photo as a data URI the model can consume directly.
func (p Photo) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", p.ContentType, base64.StdEncoding.EncodeToString(p.Data))
}

// completeJSON runs one JSON-mode completion and returns the raw content.
func (s *Service) completeJSON(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := s.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(s.config.Model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
