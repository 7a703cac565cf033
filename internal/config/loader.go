package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies MATCHDASH_* environment variable overrides, and
// returns the final Config. A missing file is not an error; the defaults
// plus environment are used. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MATCHDASH_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators adjust a deployment without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Engine.BaseURL, "MATCHDASH_ENGINE_BASE_URL")
	setDuration(&cfg.Engine.Timeout, "MATCHDASH_ENGINE_TIMEOUT")

	setDuration(&cfg.Refresh.Interval, "MATCHDASH_REFRESH_INTERVAL")

	setDuration(&cfg.Bot.Interval, "MATCHDASH_BOT_INTERVAL")
	setStr(&cfg.Bot.Strategy, "MATCHDASH_BOT_STRATEGY")
	setBool(&cfg.Bot.AutoStart, "MATCHDASH_BOT_AUTO_START")
	setFloat64(&cfg.Bot.ReferencePrice, "MATCHDASH_BOT_REFERENCE_PRICE")

	setBool(&cfg.Server.Enabled, "MATCHDASH_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "MATCHDASH_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "MATCHDASH_SERVER_CORS_ORIGINS")

	setStr(&cfg.Export.Filename, "MATCHDASH_EXPORT_FILENAME")

	setStr(&cfg.Notify.TelegramToken, "MATCHDASH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "MATCHDASH_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "MATCHDASH_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "MATCHDASH_NOTIFY_EVENTS")

	setStr(&cfg.Mode, "MATCHDASH_MODE")
	setStr(&cfg.LogLevel, "MATCHDASH_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
