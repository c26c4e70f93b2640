package config

import (
	"os"
	"time"
)

const (
	defaultWebhookURL     = "https://idgs.io.vn"
	defaultWebhookPath    = "/webhook/generate-fd"
	defaultRequestTimeout = 4 * time.Minute
	defaultPrefsPath      = "fdchat.db"
)

type Config struct {
	WebhookURL     string
	WebhookPath    string
	SupabaseURL    string
	SupabaseKey    string
	RequestTimeout time.Duration
	PrefsPath      string
}

// FromEnv builds a Config from environment variables, falling back to
// defaults. Callers load .env beforehand if present.
func FromEnv() *Config {
	cfg := &Config{
		WebhookURL:     defaultWebhookURL,
		WebhookPath:    defaultWebhookPath,
		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		RequestTimeout: defaultRequestTimeout,
		PrefsPath:      defaultPrefsPath,
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("WEBHOOK_PATH"); v != "" {
		cfg.WebhookPath = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("PREFS_PATH"); v != "" {
		cfg.PrefsPath = v
	}
	return cfg
}
