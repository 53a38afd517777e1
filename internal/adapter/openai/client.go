// Package openai implements pipeline.CommentaryGenerator using a
// chat-completions endpoint. Commentary is a best-effort step: the exported
// boundary absorbs every failure and degrades to an empty string.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
)

// Client generates a short weather remark for a snapshot.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	model      string
	maxTokens  int
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a commentary client. The caller is expected to only
// construct one when a provider key is configured.
func NewClient(key, baseURL, model string, maxTokens int, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		model:     model,
		maxTokens: maxTokens,
		metrics:   metrics,
		logger:    logger.With("provider", "openai"),
	}
}

// Commentary returns a remark about the snapshot, or "" when generation
// fails for any reason. The caller never observes an error.
func (c *Client) Commentary(ctx context.Context, snapshot domain.WeatherSnapshot) string {
	text, err := c.generate(ctx, snapshot)
	if err != nil {
		c.metrics.CommentaryRequests.WithLabelValues("error").Inc()
		c.logger.Warn("commentary generation failed", "error", err)
		return ""
	}
	if text == "" {
		c.metrics.CommentaryRequests.WithLabelValues("empty").Inc()
		return ""
	}
	c.metrics.CommentaryRequests.WithLabelValues("success").Inc()
	return text
}

// generate performs the fallible provider call. Kept separate from
// Commentary so the failure modes stay independently testable.
func (c *Client) generate(ctx context.Context, snapshot domain.WeatherSnapshot) (string, error) {
	prompt := fmt.Sprintf(
		"Based on this weather data: Temperature %g°C, Condition: %s, AQI: %d, "+
			"provide a brief 1-2 sentence helpful comment about the weather conditions for outdoor activities.",
		snapshot.TemperatureC, snapshot.Condition, snapshot.AQI,
	)

	reqBody, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat completion: status %d: %s", resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// Chat-completions request and response types.

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
