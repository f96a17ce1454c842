package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/euanavitorial/vinnax-bot/internal/version"
)

// HomeHandler serves the liveness endpoints.
type HomeHandler struct {
	logger *slog.Logger
}

// NewHomeHandler creates a home handler.
func NewHomeHandler(log *slog.Logger) *HomeHandler {
	return &HomeHandler{logger: log.With(slog.String("handler", "home"))}
}

// Register mounts GET / and HEAD /health on the Echo instance.
func (h *HomeHandler) Register(e *echo.Echo) {
	e.GET("/", h.Home)
	e.HEAD("/health", h.HealthHead)
}

// Home returns 200 JSON with the service identity.
func (h *HomeHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "vinnax-bot",
		"version": version.Version,
	})
}

// HealthHead returns 200 No Content for health checks.
func (h *HomeHandler) HealthHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
