package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Engine.BaseURL != "http://127.0.0.1:3030" {
		t.Errorf("default engine url = %q", cfg.Engine.BaseURL)
	}
	if cfg.Refresh.Interval.Duration != time.Second {
		t.Errorf("default refresh interval = %v", cfg.Refresh.Interval.Duration)
	}
	if cfg.Bot.Strategy != "random_trader" {
		t.Errorf("default strategy = %q", cfg.Bot.Strategy)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "dash" || cfg.Server.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
mode = "full"
log_level = "debug"

[engine]
base_url = "http://engine:3030"
timeout = "3s"

[refresh]
interval = "500ms"

[bot]
interval = "250ms"
strategy = "market_maker"
auto_start = true
reference_price = 42.5

[server]
enabled = true
port = 9090
cors_origins = ["http://localhost:5173"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.BaseURL != "http://engine:3030" || cfg.Engine.Timeout.Duration != 3*time.Second {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Refresh.Interval.Duration != 500*time.Millisecond {
		t.Errorf("refresh = %+v", cfg.Refresh)
	}
	if cfg.Bot.Strategy != "market_maker" || !cfg.Bot.AutoStart || cfg.Bot.ReferencePrice != 42.5 {
		t.Errorf("bot = %+v", cfg.Bot)
	}
	if cfg.Server.Port != 9090 || len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MATCHDASH_ENGINE_BASE_URL", "http://other:3030")
	t.Setenv("MATCHDASH_REFRESH_INTERVAL", "2s")
	t.Setenv("MATCHDASH_BOT_AUTO_START", "true")
	t.Setenv("MATCHDASH_SERVER_PORT", "7070")
	t.Setenv("MATCHDASH_NOTIFY_EVENTS", "bot_started, bot_stopped")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.BaseURL != "http://other:3030" {
		t.Errorf("engine url = %q", cfg.Engine.BaseURL)
	}
	if cfg.Refresh.Interval.Duration != 2*time.Second {
		t.Errorf("refresh interval = %v", cfg.Refresh.Interval.Duration)
	}
	if !cfg.Bot.AutoStart {
		t.Error("auto_start override ignored")
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	want := []string{"bot_started", "bot_stopped"}
	if len(cfg.Notify.Events) != 2 || cfg.Notify.Events[0] != want[0] || cfg.Notify.Events[1] != want[1] {
		t.Errorf("events = %v", cfg.Notify.Events)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Engine.BaseURL = "" }},
		{"relative base url", func(c *Config) { c.Engine.BaseURL = "localhost:3030" }},
		{"zero refresh interval", func(c *Config) { c.Refresh.Interval.Duration = 0 }},
		{"negative bot interval", func(c *Config) { c.Bot.Interval.Duration = -time.Second }},
		{"unknown strategy", func(c *Config) { c.Bot.Strategy = "front_runner" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"empty export filename", func(c *Config) { c.Export.Filename = "" }},
		{"unknown mode", func(c *Config) { c.Mode = "daemon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("want validation error, got nil")
			}
		})
	}
}
