package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"github.com/hellosauravgupta/project-tracker-agent/internal/logger"
)

const (
	// DefaultOpenAIModel is the default model to use.
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL.
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultSelectionTimeout bounds a single tool-selection call.
	DefaultSelectionTimeout = 30 * time.Second
)

// OpenAISelector chooses a tool by asking a chat model to classify the
// prompt against the tool descriptions. The model's reasoning is opaque; the
// contract is only that it names one of the listed tools and supplies the
// extracted argument.
type OpenAISelector struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAISelector creates an LLM-backed selector.
func NewOpenAISelector(apiKey, baseURL, model string, log *zap.Logger) *OpenAISelector {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{Timeout: DefaultSelectionTimeout}),
	)

	return &OpenAISelector{client: client, model: model, logger: log}
}

// SelectTool asks the model to pick exactly one tool and extract its
// argument, responding as JSON.
func (s *OpenAISelector) SelectTool(ctx context.Context, prompt string, tools []ToolDescription) (string, string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(buildSelectionSystemPrompt(tools)),
		openai.UserMessage(prompt),
	}

	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(s.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	start := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)

	if err != nil {
		s.logger.Debug("llm_selection_error",
			zap.String("model", s.model),
			zap.Error(err),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
		return "", "", fmt.Errorf("failed to select tool: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", errors.New("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	s.logger.Debug("llm_selection_response",
		zap.String("model", s.model),
		zap.String("response_preview", logger.SanitizePrompt(content)),
		zap.Int64("latency_ms", latency.Milliseconds()),
	)

	name, argument, err := parseSelection(content, tools)
	if err != nil {
		return "", "", err
	}

	return name, argument, nil
}

// buildSelectionSystemPrompt lists the selectable tools for the model.
func buildSelectionSystemPrompt(tools []ToolDescription) string {
	prompt := "You route user prompts about projects and tasks to exactly one tool.\n\nAvailable tools:\n"
	for _, tool := range tools {
		prompt += fmt.Sprintf("- %s: %s\n", tool.Name, tool.Description)
	}
	prompt += `
Respond with a JSON object in this format:
{"tool": "<tool name>", "argument": "<single string argument extracted from the prompt, or empty>"}

The argument is the assignee name for task tools, or the raw prompt for the project-by-ID tool. If no tool confidently matches, choose "` + ToolFallback + `". Return only valid JSON.`
	return prompt
}

// parseSelection decodes the model's JSON reply and validates the tool name
// against the enumerable set. An unknown name degrades to the fallback tool.
func parseSelection(content string, tools []ToolDescription) (string, string, error) {
	var selection struct {
		Tool     string `json:"tool"`
		Argument string `json:"argument"`
	}

	raw := content
	if err := json.Unmarshal([]byte(raw), &selection); err != nil {
		// Some models wrap JSON in prose; salvage the outermost object.
		start := bytes.IndexByte([]byte(raw), '{')
		end := bytes.LastIndexByte([]byte(raw), '}')
		if start == -1 || end == -1 || end <= start {
			return "", "", fmt.Errorf("failed to parse selection response: %w", err)
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &selection); err != nil {
			return "", "", fmt.Errorf("failed to parse selection response: %w", err)
		}
	}

	for _, tool := range tools {
		if tool.Name == selection.Tool {
			return selection.Tool, selection.Argument, nil
		}
	}

	return ToolFallback, "", nil
}
