package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/scrypster/showscout/internal/config"
	"github.com/scrypster/showscout/internal/tools"
)

// scriptedModel replays a fixed sequence of responses and records the
// message history it was called with.
type scriptedModel struct {
	responses []*llms.ContentResponse
	calls     int
	seen      [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.seen = append(m.seen, messages)
	idx := m.calls
	m.calls++
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}
}

func toolCallResponse(id, name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{
			ID:           id,
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: name, Arguments: args},
		}},
	}}}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{MaxTokens: 512, Temperature: 0.2}
}

func searchTool(t *testing.T, result string, err error) (tools.Tool, *[]string) {
	t.Helper()
	var queries []string
	return tools.Tool{
		Name:        "search",
		Description: "test search",
		Parameters:  map[string]any{"type": "object"},
		Run: func(_ context.Context, args map[string]any) (string, error) {
			q, _ := args["query"].(string)
			queries = append(queries, q)
			return result, err
		},
	}, &queries
}

func TestExecutorPlainAnswer(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{textResponse(`{"bio": "Portland duo"}`)}}
	exec := NewExecutor(model, testConfig())

	obj, err := exec.RunStructured(context.Background(), "who are Quasi?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Portland duo", obj["bio"])
	assert.Equal(t, 1, model.calls)
}

func TestExecutorToolLoop(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call_1", "search", `{"query": "Quasi band bio"}`),
		textResponse("```json\n{\"bio\": \"Portland duo\"}\n```"),
	}}
	exec := NewExecutor(model, testConfig())
	tool, queries := searchTool(t, "Quasi are a Portland duo.", nil)

	obj, err := exec.RunStructured(context.Background(), "who are Quasi?", []tools.Tool{tool})
	require.NoError(t, err)
	assert.Equal(t, "Portland duo", obj["bio"])
	require.Equal(t, []string{"Quasi band bio"}, *queries)
	require.Equal(t, 2, model.calls)

	// The second call must carry the assistant's tool call and the tool
	// response appended to the history.
	second := model.seen[1]
	require.Len(t, second, 3)
	assert.Equal(t, llms.ChatMessageTypeHuman, second[0].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, second[1].Role)
	assert.Equal(t, llms.ChatMessageTypeTool, second[2].Role)
	resp, ok := second[2].Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "call_1", resp.ToolCallID)
	assert.Equal(t, "Quasi are a Portland duo.", resp.Content)
}

func TestExecutorQuotaErrorPropagates(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call_1", "search", `{"query": "anything"}`),
		textResponse("unreached"),
	}}
	exec := NewExecutor(model, testConfig())
	tool, _ := searchTool(t, "", tools.ErrSearchQuotaExhausted)

	_, err := exec.RunStructured(context.Background(), "prompt", []tools.Tool{tool})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrSearchQuotaExhausted))
	assert.Equal(t, 1, model.calls)
}

func TestExecutorRecoverableToolError(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call_1", "search", `{"query": "anything"}`),
		textResponse(`{"bio": "guessed from training data"}`),
	}}
	exec := NewExecutor(model, testConfig())
	tool, _ := searchTool(t, "", errors.New("connection refused"))

	obj, err := exec.RunStructured(context.Background(), "prompt", []tools.Tool{tool})
	require.NoError(t, err)
	assert.Equal(t, "guessed from training data", obj["bio"])

	// The failure must have been fed back to the model as text.
	resp := model.seen[1][2].Parts[0].(llms.ToolCallResponse)
	assert.Contains(t, resp.Content, "tool error")
}

func TestExecutorUnknownTool(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call_1", "teleport", `{}`),
		textResponse(`{"bio": "done"}`),
	}}
	exec := NewExecutor(model, testConfig())

	_, err := exec.RunStructured(context.Background(), "prompt", nil)
	require.NoError(t, err)
	resp := model.seen[1][2].Parts[0].(llms.ToolCallResponse)
	assert.Equal(t, "(tool not available)", resp.Content)
}

func TestExecutorToolLoopBounded(t *testing.T) {
	// A model that always asks for another tool call must be cut off.
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call_n", "search", `{"query": "again"}`),
	}}
	exec := NewExecutor(model, testConfig())
	tool, queries := searchTool(t, "same results", nil)

	_, err := exec.RunText(context.Background(), "prompt", []tools.Tool{tool})
	require.NoError(t, err)
	assert.Equal(t, MaxToolRounds+1, model.calls)
	assert.Len(t, *queries, MaxToolRounds)
}

func TestExecutorUnparsableOutput(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{textResponse("no json here")}}
	exec := NewExecutor(model, testConfig())

	_, err := exec.RunStructured(context.Background(), "prompt", nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, tools.ErrSearchQuotaExhausted))
}
