// Command bot runs the WhatsApp attendant: webhook in, Gemini-backed reply
// out, tool calls against the business backend in between.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/euanavitorial/vinnax-bot/internal/agent"
	"github.com/euanavitorial/vinnax-bot/internal/backend"
	"github.com/euanavitorial/vinnax-bot/internal/config"
	"github.com/euanavitorial/vinnax-bot/internal/dedup"
	"github.com/euanavitorial/vinnax-bot/internal/gateway"
	"github.com/euanavitorial/vinnax-bot/internal/handlers"
	"github.com/euanavitorial/vinnax-bot/internal/logger"
	"github.com/euanavitorial/vinnax-bot/internal/pipeline"
	"github.com/euanavitorial/vinnax-bot/internal/server"
	"github.com/euanavitorial/vinnax-bot/internal/session"
	"github.com/euanavitorial/vinnax-bot/internal/tools"
	"github.com/euanavitorial/vinnax-bot/internal/version"
)

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	return logger.Init(cfg.Log.Level, cfg.Log.Format)
}

func provideGatewayClient(log *slog.Logger, cfg config.Config) *gateway.Client {
	return gateway.NewClient(log, cfg.Gateway.BaseURL, cfg.Gateway.Instance, cfg.Gateway.APIKey, cfg.Gateway.Timeout())
}

func provideBackendClient(log *slog.Logger, cfg config.Config) *backend.Client {
	return backend.NewClient(log, cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.Timeout())
}

func provideOrchestrator(lc fx.Lifecycle, log *slog.Logger, cfg config.Config, registry *tools.Registry) (*agent.Orchestrator, error) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})

	client, err := agent.NewGeminiClient(ctx, log, cfg.Gemini.APIKey)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return agent.NewOrchestrator(log, client, cfg.Gemini.ResolveModel(), registry, cfg.Gemini.Timeout()), nil
}

func provideSessionStore(log *slog.Logger, cfg config.Config) *session.Store {
	return session.NewStore(log, cfg.Session.MaxTurns)
}

func provideDedupWindow(cfg config.Config) *dedup.Window {
	return dedup.NewWindow(cfg.Dedup.Capacity)
}

func providePipeline(log *slog.Logger, cfg config.Config, sessions *session.Store, backendClient *backend.Client, orchestrator *agent.Orchestrator, gatewayClient *gateway.Client) *pipeline.Manager {
	return pipeline.NewManager(log, sessions, backendClient, orchestrator, gatewayClient, cfg.Pipeline.Workers, cfg.Pipeline.QueueSize)
}

func provideWebhookHandler(log *slog.Logger, p *pipeline.Manager, window *dedup.Window) *handlers.WebhookHandler {
	return handlers.NewWebhookHandler(log, p, window, gateway.DefaultNormalize)
}

func main() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,

			provideGatewayClient,
			provideBackendClient,
			tools.NewRegistry,
			provideOrchestrator,
			provideSessionStore,
			provideDedupWindow,
			providePipeline,

			provideServerHandler(handlers.NewHomeHandler),
			provideServerHandler(provideWebhookHandler),

			provideServer,
		),
		fx.Invoke(
			startPipeline,
			startIdleSweep,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.ServerHandlers...)
}

func startPipeline(lc fx.Lifecycle, p *pipeline.Manager) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			p.Stop()
			return nil
		},
	})
}

// startIdleSweep drops sessions that have gone quiet. Disabled unless an
// idle TTL is configured.
func startIdleSweep(lc fx.Lifecycle, logger *slog.Logger, cfg config.Config, sessions *session.Store) {
	ttl := cfg.Session.IdleTTL()
	if ttl <= 0 {
		return
	}

	c := cron.New()
	_, err := c.AddFunc("@every 5m", func() {
		if n := sessions.SweepIdle(ttl); n > 0 {
			logger.Info("idle sessions swept", slog.Int("count", n))
		}
	})
	if err != nil {
		logger.Error("idle sweep schedule failed", slog.Any("error", err))
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner, cfg config.Config) {
	fmt.Printf("Starting vinnax-bot %s\n", version.GetInfo())

	if !cfg.Gateway.Configured() {
		logger.Warn("gateway not configured; replies will not be delivered")
	}
	if cfg.Gemini.APIKey == "" {
		logger.Warn("gemini api key not configured; replies fall back to echo")
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil { // block until server is stopped
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
