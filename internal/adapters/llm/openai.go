// Package llm generates text through an OpenAI-compatible chat completion API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"placelog/internal/adapters/observability"
)

const DefaultModel = openai.GPT3Dot5Turbo

type Client struct {
	c     *openai.Client
	model string
}

// New builds a client. base overrides the API root (OpenAI-compatible gateways, tests).
func New(key, base, model string, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cfg := openai.DefaultConfig(key)
	if base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{c: openai.NewClientWithConfig(cfg), model: model}, nil
}

// Generate sends prompt as the single user message and returns the trimmed reply.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	start := time.Now()
	resp, err := c.c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		status := 0
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.HTTPStatusCode
		}
		observability.ObserveExternal("openai", "chat_completions", status, time.Since(start))
		log.Warn().Err(err).Str("service", "openai").Str("model", c.model).Msg("chat completion failed")
		return "", fmt.Errorf("chat completion: %w", err)
	}
	observability.ObserveExternal("openai", "chat_completions", http.StatusOK, time.Since(start))
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from chat completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
