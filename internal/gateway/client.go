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
	"strings"
	"time"
)

// ErrNotConfigured is returned by SendText when the gateway base URL,
// instance, or API key is missing. Callers log and move on (§ graceful
// degradation): an unconfigured gateway must not crash the pipeline.
var ErrNotConfigured = errors.New("gateway not configured")

// Client sends text messages through the Evolution API.
type Client struct {
	baseURL  string
	instance string
	apiKey   string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a gateway client. Empty settings are allowed; sends
// will return ErrNotConfigured until all three are present.
func NewClient(log *slog.Logger, baseURL, instance, apiKey string, timeout time.Duration) *Client {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		instance: strings.TrimSpace(instance),
		apiKey:   strings.TrimSpace(apiKey),
		http:     &http.Client{Timeout: timeout},
		logger:   log.With(slog.String("service", "gateway")),
	}
}

// Configured reports whether outbound sends can be attempted.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.instance != "" && c.apiKey != ""
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// SendText posts one text message to the given number. Best effort: the
// caller is expected to log the error and continue, never retry.
func (c *Client) SendText(ctx context.Context, number, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(sendTextRequest{Number: number, Text: text})
	if err != nil {
		return fmt.Errorf("marshal sendtext payload: %w", err)
	}

	url := fmt.Sprintf("%s/message/sendtext/%s", c.baseURL, c.instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sendtext request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sendtext: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendtext status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.Info("message sent",
		slog.String("number", number),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}
