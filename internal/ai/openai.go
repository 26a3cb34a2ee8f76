package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"dsaview/internal/api"
	"dsaview/internal/domain"
)

// EndpointChat is reported in errors from the openai driver
const EndpointChat = "chat-completions"

const freeformPrompt = `You are a tutor for data structures and algorithms.
Answer the user's question about the code below in GitHub-flavoured markdown.
Reference the code where useful and state time and space complexity when relevant.`

const structuredPrompt = `You are a tutor for data structures and algorithms.
Explain the code below step by step to answer the user's question.
Reply with a single JSON object with these fields:
"summary" (string), "steps" (array of {"step_number": int, "description": string, "code_snippet": string, optional}),
"time_complexity" (string), "space_complexity" (string), "additional_notes" (string, optional).`

// OpenAIConfig holds the chat completion settings
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// OpenAIExplainer talks to an OpenAI-compatible chat completion API.
type OpenAIExplainer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAI creates the openai driver.
func NewOpenAI(cfg OpenAIConfig) *OpenAIExplainer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIExplainer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Explain implements Explainer.
func (o *OpenAIExplainer) Explain(ctx context.Context, code, question string) (string, error) {
	return o.complete(ctx, freeformPrompt, code, question, nil)
}

// ExplainStructured implements Explainer using JSON object mode.
func (o *OpenAIExplainer) ExplainStructured(ctx context.Context, code, question string) (domain.StructuredExplanation, error) {
	format := &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	content, err := o.complete(ctx, structuredPrompt, code, question, format)
	if err != nil {
		return domain.StructuredExplanation{}, err
	}

	var out domain.StructuredExplanation
	if err := json.Unmarshal([]byte(stripFence(content)), &out); err != nil {
		return domain.StructuredExplanation{}, &api.RequestFailedError{
			Endpoint: EndpointChat,
			Err:      fmt.Errorf("decode structured answer: %w", err),
		}
	}
	return out, nil
}

func (o *OpenAIExplainer) complete(ctx context.Context, system, code, question string, format *openai.ChatCompletionResponseFormat) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: "Code:\n```\n" + code + "\n```\n\nQuestion: " + question},
		},
		ResponseFormat: format,
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		o.logger.Warn("chat completion failed", zap.String("model", o.model), zap.Error(err))
		return "", parseAPIError(err)
	}
	o.logger.Debug("chat completion",
		zap.String("model", o.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)))

	if len(resp.Choices) == 0 {
		return "", &api.RequestFailedError{Endpoint: EndpointChat, Err: errors.New("empty completion response")}
	}
	return resp.Choices[0].Message.Content, nil
}

// parseAPIError folds go-openai errors into the client's single error kind.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &api.RequestFailedError{
			Endpoint: EndpointChat,
			Status:   reqErr.HTTPStatusCode,
			Detail:   strings.TrimSpace(string(reqErr.Body)),
			Err:      err,
		}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &api.RequestFailedError{
			Endpoint: EndpointChat,
			Status:   apiErr.HTTPStatusCode,
			Detail:   apiErr.Message,
			Err:      err,
		}
	}

	return &api.RequestFailedError{Endpoint: EndpointChat, Err: err}
}

// stripFence removes a ```json fence some models wrap around JSON output.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
