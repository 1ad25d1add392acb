package llm

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tmc/langchaingo/llms"

	"github.com/scrypster/showscout/internal/config"
	"github.com/scrypster/showscout/internal/tools"
)

// MaxToolRounds caps the number of tool-call round trips in one executor
// run. Models occasionally loop on tool use; the cap converts a runaway loop
// into a best-effort answer from whatever the final round produced.
const MaxToolRounds = 5

// Executor runs one lookup prompt against the reasoning backend, executing
// requested tool calls up to MaxToolRounds. It is timeout-agnostic: callers
// bound the whole run with a context deadline.
type Executor struct {
	model       llms.Model
	maxTokens   int
	temperature float64
}

// NewExecutor creates an executor over the given backend.
func NewExecutor(model llms.Model, cfg config.LLMConfig) *Executor {
	return &Executor{
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// RunStructured executes prompt and parses the backend's final text as a
// JSON object. A quota-exhaustion failure from a tool propagates as
// tools.ErrSearchQuotaExhausted; unparsable output is an ordinary error the
// caller converts into a per-field failure.
func (e *Executor) RunStructured(ctx context.Context, prompt string, toolset []tools.Tool) (map[string]any, error) {
	text, err := e.run(ctx, prompt, toolset)
	if err != nil {
		return nil, err
	}
	obj, err := ParseStructured(text)
	if err != nil {
		return nil, fmt.Errorf("executor: %w", err)
	}
	return obj, nil
}

// RunText executes prompt and returns the backend's final text unparsed.
func (e *Executor) RunText(ctx context.Context, prompt string, toolset []tools.Tool) (string, error) {
	return e.run(ctx, prompt, toolset)
}

func (e *Executor) run(ctx context.Context, prompt string, toolset []tools.Tool) (string, error) {
	toolMap := make(map[string]tools.Tool, len(toolset))
	llmTools := make([]llms.Tool, 0, len(toolset))
	for _, t := range toolset {
		toolMap[t.Name] = t
		llmTools = append(llmTools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	opts := []llms.CallOption{
		llms.WithMaxTokens(e.maxTokens),
		llms.WithTemperature(e.temperature),
	}
	if len(llmTools) > 0 {
		opts = append(opts, llms.WithTools(llmTools))
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	var choice *llms.ContentChoice
	for round := 0; ; round++ {
		resp, err := e.model.GenerateContent(ctx, messages, opts...)
		if err != nil {
			return "", fmt.Errorf("executor: backend call failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("executor: backend returned no choices")
		}
		choice = resp.Choices[0]

		if len(choice.ToolCalls) == 0 || round >= MaxToolRounds {
			break
		}

		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, tc := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, tc)
		}
		messages = append(messages, assistant)

		for _, tc := range choice.ToolCalls {
			result, err := e.execToolCall(ctx, toolMap, tc)
			if err != nil {
				return "", err
			}
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: tc.ID,
						Name:       tc.FunctionCall.Name,
						Content:    result,
					},
				},
			})
		}
	}

	return choice.Content, nil
}

// execToolCall runs one requested tool invocation. Recoverable tool failures
// become text fed back to the model; only the quota-exhaustion signal is
// returned as an error.
func (e *Executor) execToolCall(ctx context.Context, toolMap map[string]tools.Tool, tc llms.ToolCall) (string, error) {
	if tc.FunctionCall == nil {
		return "(tool not available)", nil
	}
	tool, ok := toolMap[tc.FunctionCall.Name]
	if !ok {
		return "(tool not available)", nil
	}

	args, err := ParseStructured(tc.FunctionCall.Arguments)
	if err != nil {
		return fmt.Sprintf("(tool error: invalid arguments: %v)", err), nil
	}

	result, err := tool.Run(ctx, args)
	if err != nil {
		if errors.Is(err, tools.ErrSearchQuotaExhausted) {
			return "", err
		}
		log.Printf("executor: tool %s failed: %v", tc.FunctionCall.Name, err)
		return fmt.Sprintf("(tool error: %v)", err), nil
	}
	return result, nil
}
