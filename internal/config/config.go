// Package config defines the top-level configuration for matchdash and
// provides validation helpers.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by MATCHDASH_* environment
// variables.
type Config struct {
	Engine   EngineConfig  `toml:"engine"`
	Refresh  RefreshConfig `toml:"refresh"`
	Bot      BotConfig     `toml:"bot"`
	Server   ServerConfig  `toml:"server"`
	Export   ExportConfig  `toml:"export"`
	Notify   NotifyConfig  `toml:"notify"`
	Mode     string        `toml:"mode"`
	LogLevel string        `toml:"log_level"`
}

// EngineConfig holds the remote matching-engine endpoint parameters.
type EngineConfig struct {
	BaseURL string `toml:"base_url"`
	// Timeout bounds each request to the engine. Zero disables the
	// client-side timeout, letting a hung request race the next cycle.
	Timeout duration `toml:"timeout"`
}

// RefreshConfig holds the panel refresh cadence.
type RefreshConfig struct {
	Interval duration `toml:"interval"`
}

// BotConfig holds the simulated bot parameters.
type BotConfig struct {
	Interval duration `toml:"interval"`
	// Strategy is the strategy started in bot mode or when auto_start is
	// set: "random_trader" or "market_maker".
	Strategy       string  `toml:"strategy"`
	AutoStart      bool    `toml:"auto_start"`
	ReferencePrice float64 `toml:"reference_price"`
}

// ServerConfig holds the local dashboard HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// ExportConfig holds CSV export parameters.
type ExportConfig struct {
	Filename string `toml:"filename"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "2s", "500ms").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "1s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			BaseURL: "http://127.0.0.1:3030",
			Timeout: duration{0},
		},
		Refresh: RefreshConfig{
			Interval: duration{time.Second},
		},
		Bot: BotConfig{
			Interval:       duration{2 * time.Second},
			Strategy:       "random_trader",
			AutoStart:      false,
			ReferencePrice: 100,
		},
		Server: ServerConfig{
			Enabled: true,
			Port:    8080,
		},
		Export: ExportConfig{
			Filename: "trades.csv",
		},
		Mode:     "dash",
		LogLevel: "info",
	}
}

// Validate checks the configuration for inconsistencies. It is called by the
// entry point after Load.
func (c *Config) Validate() error {
	if c.Engine.BaseURL == "" {
		return fmt.Errorf("config: engine.base_url is required")
	}
	if u, err := url.Parse(c.Engine.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: engine.base_url %q is not a valid URL", c.Engine.BaseURL)
	}
	if c.Refresh.Interval.Duration <= 0 {
		return fmt.Errorf("config: refresh.interval must be positive")
	}
	if c.Bot.Interval.Duration <= 0 {
		return fmt.Errorf("config: bot.interval must be positive")
	}
	switch c.Bot.Strategy {
	case "random_trader", "market_maker":
	default:
		return fmt.Errorf("config: unsupported bot.strategy %q", c.Bot.Strategy)
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Export.Filename == "" {
		return fmt.Errorf("config: export.filename is required")
	}
	switch strings.ToLower(c.Mode) {
	case "dash", "bot", "full":
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}
	return nil
}
