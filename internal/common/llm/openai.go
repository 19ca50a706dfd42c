// Package llm talks to OpenAI-compatible chat completion services.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	httpclient "lead-scoring-workers/internal/common/http"
	"lead-scoring-workers/internal/common/metrics"
)

// Request is one single-prompt completion.
type Request struct {
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Completer returns the assistant text for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrNoChoices is returned when the service answers 2xx with an empty choices list.
var ErrNoChoices = errors.New("completion response had no choices")

// APIError is a non-2xx response from the completion service.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("completion service error %d: %s (type=%s)", e.StatusCode, e.Message, e.Type)
	}
	return fmt.Sprintf("completion service error %d: %s", e.StatusCode, e.Message)
}

// OpenAIConfig configures OpenAIClient.
type OpenAIConfig struct {
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	MaxResponseBytes int64
}

// OpenAIClient implements Completer against POST {base}/chat/completions.
// It is safe for concurrent use.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpclient.NewClient(cfg.Timeout).WithMaxResponseBytes(cfg.MaxResponseBytes),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	reply, err := c.complete(ctx, req)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.LLMRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return reply, err
}

func (c *OpenAIClient) complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var resp chatResponse
	err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + c.apiKey}, body, &resp)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			return "", decodeAPIError(statusErr)
		}
		return "", fmt.Errorf("call completion service: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func decodeAPIError(statusErr *httpclient.StatusError) error {
	apiErr := &APIError{StatusCode: statusErr.StatusCode, Message: http.StatusText(statusErr.StatusCode)}

	var body errorResponse
	if err := json.Unmarshal(statusErr.Body, &body); err == nil && body.Error.Message != "" {
		apiErr.Message = body.Error.Message
		apiErr.Type = body.Error.Type
	}
	return apiErr
}
