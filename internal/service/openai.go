package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"propchat/internal/config"
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint
type OpenAIClient struct {
	config *config.OpenAIConfig
	client *openai.Client
	logger zerolog.Logger
}

// NewOpenAIClient creates a client for cfg.APIBase
func NewOpenAIClient(cfg *config.OpenAIConfig, logger zerolog.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = cfg.APIBase
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	logger = logger.With().Str("component", "openai").Str("model", cfg.ChatModel).Logger()
	logger.Debug().Str("base_url", clientCfg.BaseURL).Bool("enabled", cfg.Enabled).Msg("Completion client configured")

	return &OpenAIClient{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger,
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c != nil && c.config.Enabled
}

// Complete sends one system+user exchange and returns the first choice
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.IsEnabled() {
		return "", ErrCompletionDisabled
	}

	req := openai.ChatCompletionRequest{
		Model: c.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	if c.config.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("completion API returned %d: %w", apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Debug().Int("total_tokens", resp.Usage.TotalTokens).Msg("Completion received")
	return content, nil
}
