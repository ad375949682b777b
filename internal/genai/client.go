// Package genai provides the language-model integration: chat completions
// through an OpenAI-compatible API and embedding generation for the
// vector index.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	apperrors "github.com/mee-advisor/mee-assistant-go/internal/errors"
)

const (
	// CompletionTimeout bounds a single chat completion request.
	CompletionTimeout = 30 * time.Second

	// completionMaxTokens is sufficient for chat-sized answers.
	completionMaxTokens = 1024
)

// Completer produces a text completion for a prompt. Both the category
// classifier and the answer generator consume this interface; tests
// substitute fakes.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client is a chat-completion client for OpenAI-compatible providers.
type Client struct {
	client openai.Client
	model  string
}

// NewClient creates a chat completion client.
// baseURL selects the provider endpoint; model is required.
func NewClient(apiKey, baseURL, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Complete sends one chat completion request and returns the trimmed
// response text. Temperature is pinned to 0 for reproducible answers.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c == nil {
		return "", apperrors.ErrLLMUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, CompletionTimeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(completionMaxTokens),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "Chat completion failed",
			"model", c.model,
			"input_length", len(user),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("%w: %v", apperrors.ErrLLMUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperrors.ErrEmptyResponse
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "Chat completion succeeded",
			"model", c.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"duration_ms", duration.Milliseconds())
	}

	return content, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
