package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter replays canned model turns and records every invocation.
type fakeCompleter struct {
	calls     int
	replies   []openai.ChatCompletionMessage
	err       error
	lastBody  openai.ChatCompletionNewParams
	allBodies []openai.ChatCompletionNewParams
}

func (f *fakeCompleter) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.lastBody = body
	f.allBodies = append(f.allBodies, body)
	idx := f.calls
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	reply := f.replies[idx]
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{{Message: reply}},
	}, nil
}

func textReply(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{Content: content}
}

func testService(fake *fakeCompleter) *Service {
	return &Service{
		chat:   fake,
		config: Config{Model: "test-model", DuplicateThreshold: DefaultDuplicateThreshold},
	}
}

var testPhoto = Photo{ContentType: "image/jpeg", Data: []byte("not really a jpeg")}

func TestDetectDuplicateFallbacks(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"empty input", ""},
		{"empty list", "[]"},
		{"malformed json", "{not json"},
		{"wrong shape", `{"id":"x"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeCompleter{}
			svc := testService(fake)

			result, err := svc.DetectDuplicate(context.Background(), testPhoto, "12.97,77.59", "pothole", tc.data)
			require.NoError(t, err)
			assert.False(t, result.IsDuplicate)
			assert.Zero(t, result.Confidence)
			// defined fallback, the model is never invoked
			assert.Zero(t, fake.calls)
		})
	}
}

func TestDetectDuplicateVerdict(t *testing.T) {
	fake := &fakeCompleter{replies: []openai.ChatCompletionMessage{
		textReply(`{"isDuplicate":true,"confidence":0.93,"duplicateIssueId":"abc123"}`),
	}}
	svc := testService(fake)

	existing := `[{"id":"abc123","description":"pothole on 5th cross","imageUrl":"https://x/1.jpg"}]`
	result, err := svc.DetectDuplicate(context.Background(), testPhoto, "12.97,77.59", "pothole", existing)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, "abc123", result.DuplicateIssueID)
	assert.True(t, result.Actionable(svc.Threshold()))
}

func TestDuplicateActionableThreshold(t *testing.T) {
	assert.True(t, DuplicateResult{IsDuplicate: true, Confidence: 0.81}.Actionable(0.8))
	// strictly greater than the threshold
	assert.False(t, DuplicateResult{IsDuplicate: true, Confidence: 0.8}.Actionable(0.8))
	assert.False(t, DuplicateResult{IsDuplicate: false, Confidence: 0.99}.Actionable(0.8))
}

func TestDetectDuplicateModelFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("model unavailable")}
	svc := testService(fake)

	existing := `[{"id":"abc123","description":"pothole"}]`
	_, err := svc.DetectDuplicate(context.Background(), testPhoto, "loc", "desc", existing)
	assert.Error(t, err)
}

func TestCheckClarity(t *testing.T) {
	t.Run("unclear photo carries a reason", func(t *testing.T) {
		fake := &fakeCompleter{replies: []openai.ChatCompletionMessage{
			textReply(`{"isClear":false,"reason":"The photo is too dark to see the problem."}`),
		}}
		svc := testService(fake)

		result, err := svc.CheckClarity(context.Background(), testPhoto)
		require.NoError(t, err)
		assert.False(t, result.IsClear)
		assert.NotEmpty(t, result.Reason)
	})

	t.Run("malformed model output is an error", func(t *testing.T) {
		fake := &fakeCompleter{replies: []openai.ChatCompletionMessage{
			textReply("sure, looks fine to me"),
		}}
		svc := testService(fake)

		_, err := svc.CheckClarity(context.Background(), testPhoto)
		assert.Error(t, err)
	})
}

func noIssues(ctx context.Context) ([]IssueSummary, error) {
	return nil, nil
}

func TestChatDirectAnswer(t *testing.T) {
	fake := &fakeCompleter{replies: []openai.ChatCompletionMessage{
		textReply("Your pothole report is In Progress."),
	}}
	svc := testService(fake)

	history := []ChatTurn{
		{Role: "user", Text: "hi"},
		{Role: "model", Text: "Hello! How can I help?"},
	}
	reply, err := svc.Chat(context.Background(), "user-1", history, "what about my pothole?", noIssues)
	require.NoError(t, err)
	assert.Equal(t, "Your pothole report is In Progress.", reply)

	// system instructions + full history + new message, resent in full
	require.Len(t, fake.lastBody.Messages, 4)
	require.Len(t, fake.lastBody.Tools, 1)
}

func TestChatToolRound(t *testing.T) {
	fake := &fakeCompleter{replies: []openai.ChatCompletionMessage{
		{
			ToolCalls: []openai.ChatCompletionMessageToolCallUnion{{
				ID:   "call_1",
				Type: "function",
				Function: openai.ChatCompletionMessageFunctionToolCallFunction{
					Name:      userIssuesTool,
					Arguments: "{}",
				},
			}},
		},
		textReply("You have one open report."),
	}}
	svc := testService(fake)

	fetched := false
	fetch := func(ctx context.Context) ([]IssueSummary, error) {
		fetched = true
		return []IssueSummary{{ID: "abc", Title: "Road Report - Jan 2, 2026", Category: "Road", Status: "Submitted"}}, nil
	}

	reply, err := svc.Chat(context.Background(), "user-1", nil, "how many reports do I have?", fetch)
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, "You have one open report.", reply)
	assert.Equal(t, 2, fake.calls)
	// second round carries the assistant turn and the tool result
	assert.Greater(t, len(fake.allBodies[1].Messages), len(fake.allBodies[0].Messages))
}
