// Package handlers contains the HTTP surface: the messaging-gateway webhook
// and the liveness endpoints.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/euanavitorial/vinnax-bot/internal/dedup"
	"github.com/euanavitorial/vinnax-bot/internal/gateway"
	"github.com/euanavitorial/vinnax-bot/internal/pipeline"
)

// maxWebhookBody caps the request body read. Gateway payloads are small;
// anything larger is not a message event.
const maxWebhookBody = 1 << 20

// WebhookResponse is the acknowledgment body. Status reports how the event
// was classified; the gateway itself ignores it, it exists for operators.
type WebhookResponse struct {
	Status string `json:"status"`
}

// WebhookHandler receives gateway message events, filters and deduplicates
// them synchronously, and hands the survivors to the pipeline.
type WebhookHandler struct {
	pipeline  *pipeline.Manager
	window    *dedup.Window
	normalize gateway.NormalizeFunc
	logger    *slog.Logger
}

// NewWebhookHandler creates the webhook handler. A nil normalize falls back
// to the default sender-identity derivation.
func NewWebhookHandler(log *slog.Logger, p *pipeline.Manager, window *dedup.Window, normalize gateway.NormalizeFunc) *WebhookHandler {
	if normalize == nil {
		normalize = gateway.DefaultNormalize
	}
	return &WebhookHandler{
		pipeline:  p,
		window:    window,
		normalize: normalize,
		logger:    log.With(slog.String("handler", "webhook")),
	}
}

// Register mounts POST /webhook/messages-upsert on the Echo instance.
func (h *WebhookHandler) Register(e *echo.Echo) {
	e.POST("/webhook/messages-upsert", h.MessagesUpsert)
}

// MessagesUpsert acknowledges every delivery with 200 regardless of how the
// event is classified; the gateway must never be driven into retries by
// payloads we chose to ignore.
func (h *WebhookHandler) MessagesUpsert(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("webhook body read failed", slog.Any("error", err))
		return c.JSON(http.StatusOK, WebhookResponse{Status: string(gateway.OutcomeBadPayload)})
	}

	event, outcome := gateway.ParseEvent(body, h.normalize)
	if outcome != gateway.OutcomeOK {
		h.logger.Debug("event ignored", slog.String("outcome", string(outcome)))
		return c.JSON(http.StatusOK, WebhookResponse{Status: string(outcome)})
	}

	// Dedup runs before enqueue so a redelivered event can never race its
	// original through the pool.
	if h.window.Seen(event.MessageID) {
		h.logger.Info("duplicate delivery ignored",
			slog.String("message_id", event.MessageID),
			slog.String("sender", event.SenderID),
		)
		return c.JSON(http.StatusOK, WebhookResponse{Status: "duplicate_ignored"})
	}

	if err := h.pipeline.Enqueue(event); err != nil {
		status := "queue_full"
		if errors.Is(err, pipeline.ErrStopped) {
			status = "shutting_down"
		}
		h.logger.Warn("event dropped", slog.String("status", status), slog.String("sender", event.SenderID))
		return c.JSON(http.StatusOK, WebhookResponse{Status: status})
	}

	h.logger.Info("event accepted",
		slog.String("message_id", event.MessageID),
		slog.String("sender", event.SenderID),
	)
	return c.JSON(http.StatusOK, WebhookResponse{Status: "processing"})
}
