// Package config loads and exposes application configuration (TOML plus environment overrides).
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML and env.
const (
	DefaultConfigPath         = "config.toml"
	DefaultHTTPAddr           = ":8080"
	DefaultGatewayTimeoutSecs = 20
	DefaultGeminiModel        = "models/gemini-2.5-flash"
	DefaultGeminiTimeoutSecs  = 30
	DefaultBackendTimeoutSecs = 10
	DefaultSessionMaxTurns    = 20
	DefaultDedupCapacity      = 500
	DefaultPipelineWorkers    = 4
	DefaultPipelineQueueSize  = 256
)

// Config is the root application configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Gateway  GatewayConfig  `toml:"gateway"`
	Gemini   GeminiConfig   `toml:"gemini"`
	Backend  BackendConfig  `toml:"backend"`
	Session  SessionConfig  `toml:"session"`
	Dedup    DedupConfig    `toml:"dedup"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// GatewayConfig holds the Evolution API endpoint used to receive and send
// WhatsApp messages. Instance is the Evolution instance name embedded in
// the sendtext URL.
type GatewayConfig struct {
	BaseURL        string `toml:"base_url"`
	Instance       string `toml:"instance"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the outbound send timeout as a duration.
func (c GatewayConfig) Timeout() time.Duration {
	return secondsOr(c.TimeoutSeconds, DefaultGatewayTimeoutSecs)
}

// Configured reports whether all fields required for outbound sends are set.
func (c GatewayConfig) Configured() bool {
	return c.BaseURL != "" && c.Instance != "" && c.APIKey != ""
}

// GeminiConfig holds the generative backend credentials and model choice.
// FallbackModels are tried in order when the configured model is empty.
type GeminiConfig struct {
	APIKey         string   `toml:"api_key"`
	Model          string   `toml:"model"`
	FallbackModels []string `toml:"fallback_models"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Timeout returns the generation call timeout as a duration.
func (c GeminiConfig) Timeout() time.Duration {
	return secondsOr(c.TimeoutSeconds, DefaultGeminiTimeoutSecs)
}

// ResolveModel returns the first non-empty model among the configured model
// and the fallback candidates.
func (c GeminiConfig) ResolveModel() string {
	candidates := append([]string{c.Model}, c.FallbackModels...)
	for _, m := range candidates {
		if strings.TrimSpace(m) != "" {
			return strings.TrimSpace(m)
		}
	}
	return DefaultGeminiModel
}

// BackendConfig holds the business backend (clients, products, orders,
// quotes) base URL and API key.
type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the backend call timeout as a duration.
func (c BackendConfig) Timeout() time.Duration {
	return secondsOr(c.TimeoutSeconds, DefaultBackendTimeoutSecs)
}

// SessionConfig bounds per-sender transcripts. IdleTTLMinutes enables the
// periodic idle-session sweep when greater than zero.
type SessionConfig struct {
	MaxTurns       int `toml:"max_turns"`
	IdleTTLMinutes int `toml:"idle_ttl_minutes"`
}

// IdleTTL returns the idle-session TTL, or zero when the sweep is disabled.
func (c SessionConfig) IdleTTL() time.Duration {
	if c.IdleTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.IdleTTLMinutes) * time.Minute
}

// DedupConfig bounds the recent-message-id window.
type DedupConfig struct {
	Capacity int `toml:"capacity"`
}

// PipelineConfig bounds the inbound worker pool.
type PipelineConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

// Load reads the TOML config file at path, applies defaults for missing
// fields, and then applies environment variable overrides. A missing file
// is not an error; the process can run entirely from the environment.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Gateway: GatewayConfig{
			TimeoutSeconds: DefaultGatewayTimeoutSecs,
		},
		Gemini: GeminiConfig{
			Model:          DefaultGeminiModel,
			FallbackModels: []string{"models/gemini-1.5-flash", "models/gemini-1.5-pro"},
			TimeoutSeconds: DefaultGeminiTimeoutSecs,
		},
		Backend: BackendConfig{
			TimeoutSeconds: DefaultBackendTimeoutSecs,
		},
		Session: SessionConfig{
			MaxTurns: DefaultSessionMaxTurns,
		},
		Dedup: DedupConfig{
			Capacity: DefaultDedupCapacity,
		},
		Pipeline: PipelineConfig{
			Workers:   DefaultPipelineWorkers,
			QueueSize: DefaultPipelineQueueSize,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides TOML values with the deployment's environment
// variables. Env wins so a Render-style deploy needs no config file.
func applyEnv(cfg *Config) {
	overrideString(&cfg.Server.Addr, "SERVER_ADDR")
	overrideString(&cfg.Log.Level, "LOG_LEVEL")
	overrideString(&cfg.Log.Format, "LOG_FORMAT")
	overrideString(&cfg.Gateway.BaseURL, "EVOLUTION_URL_BASE")
	overrideString(&cfg.Gateway.Instance, "EVOLUTION_INSTANCE")
	overrideString(&cfg.Gateway.APIKey, "EVOLUTION_KEY")
	overrideString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	overrideString(&cfg.Gemini.Model, "GEMINI_MODEL")
	overrideString(&cfg.Backend.BaseURL, "BACKEND_URL_BASE")
	overrideString(&cfg.Backend.APIKey, "BACKEND_API_KEY")
}

func overrideString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func secondsOr(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
