package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the business backend. All entity operations funnel
// through do, which maps transport and protocol failures to Result values.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a backend client. An empty base URL is allowed; calls
// will return error Results until it is configured.
func NewClient(log *slog.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: timeout},
		logger:  log.With(slog.String("service", "backend")),
	}
}

// Configured reports whether the client has a base URL to call.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// do issues one backend call. Mapping: transport failure and malformed
// JSON → error Result; 404 → not_found; 204 → ok with no payload;
// other non-2xx → error Result with the body's message when present.
func (c *Client) do(ctx context.Context, method, path string, body any) Result {
	if !c.Configured() {
		return errorResult("backend não configurado")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errorResult(fmt.Sprintf("falha ao montar requisição: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errorResult(fmt.Sprintf("requisição inválida: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return errorResult("não foi possível contatar o sistema")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errorResult("falha ao ler resposta do sistema")
	}

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return Result{Status: StatusOK}
	case resp.StatusCode == http.StatusNotFound:
		return notFoundResult()
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Warn("backend returned error status",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return errorResult(extractErrorMessage(raw, resp.StatusCode))
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return Result{Status: StatusOK}
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("backend returned malformed JSON",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return errorResult("resposta inválida do sistema")
	}
	return Result{Status: StatusOK, Payload: payload}
}

func extractErrorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("o sistema respondeu com status %d", status)
}

func escape(v string) string {
	return url.PathEscape(strings.TrimSpace(v))
}
