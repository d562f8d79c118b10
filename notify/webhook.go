// Package notify posts short deployment status messages to an external service.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Config holds webhook notifier configuration.
type Config struct {
	URL      string
	Username string // optional basic auth
	Password string
	Timeout  time.Duration
	RetryMax int
}

// WebhookNotifier posts {"text": message} as JSON to a URL.
type WebhookNotifier struct {
	url      string
	username string
	password string
	client   *retryablehttp.Client
	logger   *slog.Logger
}

type payload struct {
	Text string `json:"text"`
}

func NewWebhookNotifier(cfg Config, logger *slog.Logger) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = timeout
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = logger.With("layer", "notify")

	return &WebhookNotifier{
		url:      cfg.URL,
		username: cfg.Username,
		password: cfg.Password,
		client:   client,
		logger:   logger,
	}
}

// Notify sends message. Any non-2xx answer is an error.
func (n *WebhookNotifier) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(payload{Text: message})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.url, body)
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.username != "" {
		req.SetBasicAuth(n.username, n.password)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected with status %d", resp.StatusCode)
	}

	n.logger.Debug("Notification sent", "layer", "notify", "status", resp.StatusCode)
	return nil
}
