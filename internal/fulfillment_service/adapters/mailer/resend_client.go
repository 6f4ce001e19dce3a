package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Tag is a provider-side label attached to an outgoing email.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EmailMessage is the payload for one transactional email.
type EmailMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
	Tags    []Tag    `json:"tags,omitempty"`
}

// SendReceipt is the provider's acknowledgement of an accepted email.
type SendReceipt struct {
	ID string `json:"id"`
}

// Sender submits transactional email to a delivery provider.
type Sender interface {
	Send(ctx context.Context, msg EmailMessage) (*SendReceipt, error)
}

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

func NewResendClient(logger *slog.Logger, apiURL, apiKey string, httpClient *http.Client) *ResendClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &ResendClient{
		logger:     logger.With("provider", "resend"),
		httpClient: httpClient,
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

// resendErrorResponse is Resend's error envelope.
type resendErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// Send posts the message and returns the provider message id. A 2xx status
// is acceptance; everything else is an error carrying the provider detail.
func (c *ResendClient) Send(ctx context.Context, msg EmailMessage) (*SendReceipt, error) {
	reqBytes, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create email request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call email endpoint: %w", err)
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read email response (status %d): %w", httpResp.StatusCode, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var errResp resendErrorResponse
		if jsonErr := json.Unmarshal(respBytes, &errResp); jsonErr == nil && errResp.Message != "" {
			return nil, fmt.Errorf("email endpoint returned status %d (%s): %s", httpResp.StatusCode, errResp.Name, errResp.Message)
		}
		return nil, fmt.Errorf("email endpoint returned status %d", httpResp.StatusCode)
	}

	var receipt SendReceipt
	if err := json.Unmarshal(respBytes, &receipt); err != nil {
		// Accepted by the provider even if the body surprised us.
		c.logger.WarnContext(ctx, "Email accepted but response body not parseable", "status_code", httpResp.StatusCode, "error", err)
		return &SendReceipt{}, nil
	}

	c.logger.InfoContext(ctx, "Email accepted by provider", "provider_message_id", receipt.ID)
	return &receipt, nil
}
