package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amrgaberM/codesense/internal/config"
	"github.com/amrgaberM/codesense/internal/core"
)

const (
	requestTimeout    = 120 * time.Second
	defaultMaxTokens  = 4096
	reviewTemperature = 0.1 // low temperature for consistent output
)

// Client sends an assembled prompt to the model provider and returns the raw
// response text. Implementations own timeout and retry policy; callers treat
// the call as fallible and potentially slow.
//
//go:generate mockgen -destination=../../mocks/mock_llm_client.go -package=mocks -mock_names Client=MockLLMClient . Client
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
	Model() string
}

// GroqClient talks to the Groq chat-completions API, which speaks the
// OpenAI-compatible wire format.
type GroqClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewGroqClient creates a client from application configuration.
func NewGroqClient(cfg *config.Config, logger *slog.Logger) (*GroqClient, error) {
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is not set")
	}
	return &GroqClient{
		apiKey:  cfg.GroqAPIKey,
		model:   cfg.GroqModel,
		baseURL: cfg.GroqBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}, nil
}

// Model returns the configured model name.
func (g *GroqClient) Model() string { return g.model }

// Complete executes one chat completion and returns the assistant's text.
// Transport failures, rate limits, and provider errors surface as
// core.ErrProviderUnavailable after retries are exhausted; the normalizer is
// never handed a failed call's output.
func (g *GroqClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	body := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: reviewTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var content string
	err = retryWithBackoff(ctx, 3, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

		httpResp, err := g.client.Do(httpReq)
		if err != nil {
			return &serverError{cause: err}
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		switch {
		case httpResp.StatusCode == http.StatusTooManyRequests:
			return &rateLimitError{}
		case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
			return &authError{message: string(respBody)}
		case httpResp.StatusCode >= 500:
			return &serverError{statusCode: httpResp.StatusCode, body: string(respBody)}
		case httpResp.StatusCode != http.StatusOK:
			return fmt.Errorf("provider error (status %d): %s", httpResp.StatusCode, string(respBody))
		}

		var result chatResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("parsing response envelope: %w", err)
		}
		if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
			return fmt.Errorf("no content in provider response")
		}

		content = result.Choices[0].Message.Content
		g.logger.Debug("chat completion finished",
			"model", g.model,
			"tokens", result.Usage.TotalTokens,
		)
		return nil
	})
	if err != nil {
		if isUnavailable(err) {
			return "", fmt.Errorf("%w: %v", core.ErrProviderUnavailable, err)
		}
		return "", err
	}

	return content, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	TotalTokens int `json:"total_tokens"`
}
