package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"fdchat/internal/chat"
	"fdchat/internal/config"
)

const (
	jsonContentType = "application/json"
	healthPath      = "/health"
)

// Request is the single element of the array payload the webhook expects.
type Request struct {
	AccountID    string `json:"accountId"`
	SessionID    string `json:"sessionId"`
	FunctionName string `json:"functionName"`
	Text         string `json:"text"`
	FinalResult  bool   `json:"finalResult"`
}

// Client calls the inference webhook. Calls may take minutes; every call runs
// under the configured deadline and a lapsed deadline is reported as
// chat.ErrTimeout, distinct from chat.ErrTransport.
type Client struct {
	httpClient *http.Client
	cfg        *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

// Send posts one request to the webhook and returns the raw response body.
func (c *Client) Send(ctx context.Context, request Request) (json.RawMessage, error) {
	reqBytes, err := json.Marshal([]Request{request})
	if err != nil {
		return nil, fmt.Errorf("marshal webhook request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	webhookURL := c.cfg.WebhookURL + c.cfg.WebhookPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		slog.Error("Failed to build webhook request", "error", err)
		return nil, err
	}
	req.Header.Set("Content-Type", jsonContentType)
	req.Header.Set("Accept", jsonContentType)

	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Error("Webhook call exceeded deadline", "session_id", request.SessionID, "timeout", c.cfg.RequestTimeout)
			return nil, fmt.Errorf("webhook call: %w", chat.ErrTimeout)
		}
		slog.Error("Failed to send webhook request", "error", err)
		return nil, fmt.Errorf("webhook call: %w: %w", chat.ErrTransport, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		slog.Error("Failed to read webhook response body", "error", err)
		return nil, fmt.Errorf("webhook response: %w: %w", chat.ErrTransport, err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		slog.Error("Webhook request failed", "status_code", res.StatusCode)
		return nil, fmt.Errorf("webhook status %d: %w", res.StatusCode, chat.ErrTransport)
	}

	return json.RawMessage(body), nil
}

// Health probes the webhook host. Best-effort: any failure reads as down.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.WebhookURL+healthPath, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", jsonContentType)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusOK
}
