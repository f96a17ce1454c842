package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.Server.Addr != DefaultHTTPAddr {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, DefaultHTTPAddr)
	}
	if cfg.Dedup.Capacity != DefaultDedupCapacity {
		t.Errorf("dedup capacity = %d, want %d", cfg.Dedup.Capacity, DefaultDedupCapacity)
	}
	if cfg.Session.MaxTurns != DefaultSessionMaxTurns {
		t.Errorf("session max turns = %d, want %d", cfg.Session.MaxTurns, DefaultSessionMaxTurns)
	}
	if cfg.Session.IdleTTL() != 0 {
		t.Errorf("idle TTL should be disabled by default, got %v", cfg.Session.IdleTTL())
	}
	if cfg.Gemini.Timeout() != 30*time.Second {
		t.Errorf("gemini timeout = %v, want 30s", cfg.Gemini.Timeout())
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9090"

[gateway]
base_url = "https://evo.example.com"
instance = "VINNAX"
api_key = "file-key"

[session]
max_turns = 6
idle_ttl_minutes = 30
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EVOLUTION_KEY", "env-key")
	t.Setenv("GEMINI_MODEL", "models/gemini-2.5-pro")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Gateway.APIKey != "env-key" {
		t.Errorf("env override lost: api key = %q", cfg.Gateway.APIKey)
	}
	if cfg.Gemini.Model != "models/gemini-2.5-pro" {
		t.Errorf("model = %q", cfg.Gemini.Model)
	}
	if !cfg.Gateway.Configured() {
		t.Error("gateway should report configured")
	}
	if cfg.Session.MaxTurns != 6 {
		t.Errorf("max turns = %d, want 6", cfg.Session.MaxTurns)
	}
	if cfg.Session.IdleTTL() != 30*time.Minute {
		t.Errorf("idle TTL = %v, want 30m", cfg.Session.IdleTTL())
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name string
		cfg  GeminiConfig
		want string
	}{
		{"configured", GeminiConfig{Model: "models/gemini-2.5-flash"}, "models/gemini-2.5-flash"},
		{"first fallback", GeminiConfig{Model: " ", FallbackModels: []string{"models/gemini-1.5-flash"}}, "models/gemini-1.5-flash"},
		{"all empty", GeminiConfig{Model: "", FallbackModels: []string{"", " "}}, DefaultGeminiModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveModel(); got != tt.want {
				t.Errorf("ResolveModel() = %q, want %q", got, tt.want)
			}
		})
	}
}
