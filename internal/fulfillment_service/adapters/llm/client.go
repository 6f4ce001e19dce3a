package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client generates a text completion for a prompt. Implementations make
// exactly one attempt per call; retry policy belongs to callers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatCompletionClient talks to an OpenAI-compatible chat completions
// endpoint with bearer authentication.
type ChatCompletionClient struct {
	logger      *slog.Logger
	httpClient  *http.Client
	apiURL      string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

func NewChatCompletionClient(logger *slog.Logger, apiURL, apiKey, model string, maxTokens int, temperature float64, httpClient *http.Client) *ChatCompletionClient {
	if httpClient == nil {
		// Completions are slow; the default client timeout reflects that.
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &ChatCompletionClient{
		logger:      logger.With("provider", "chat_completions"),
		httpClient:  httpClient,
		apiURL:      apiURL,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// chatCompletionErrorResponse is the provider's error envelope.
type chatCompletionErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete posts the prompt as a single user message and returns the first
// choice's content. Any transport fault, non-2xx status or empty completion
// is an error.
func (c *ChatCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call completion endpoint: %w", err)
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response (status %d): %w", httpResp.StatusCode, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var errResp chatCompletionErrorResponse
		if jsonErr := json.Unmarshal(respBytes, &errResp); jsonErr == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("completion endpoint returned status %d: %s", httpResp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("completion endpoint returned status %d", httpResp.StatusCode)
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("completion response contained empty content")
	}

	c.logger.DebugContext(ctx, "Completion received", "model", c.model, "content_length", len(content))
	return content, nil
}
