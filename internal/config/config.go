// internal/config/config.go

// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. The storage backend is chosen once at
// load time: a non-empty GCSBucket selects Google Cloud Storage, otherwise
// sessions live on the local filesystem under DataDir.
type Config struct {
	Port     int    `env:"PORT"`
	BaseURL  string `env:"WEBAPP_BASE_URL"`
	DataDir  string `env:"DATA_DIR"`
	WebDir   string `env:"WEB_DIR"`
	LogLevel string `env:"LOG_LEVEL"`

	GCSBucket string `env:"GCS_BUCKET_NAME"`

	Telegram struct {
		Token      string `env:"TELEGRAM_BOT_TOKEN"`
		WebhookURL string `env:"TELEGRAM_WEBHOOK_URL"` // empty means long-polling
	}

	LLM struct {
		BaseURL          string  `env:"LLM_BASE_URL"`
		APIKey           string  `env:"LLM_API_KEY"`
		Model            string  `env:"LLM_MODEL"`
		MaxTokens        int     `env:"LLM_MAX_TOKENS"`
		Temperature      float32 `env:"LLM_TEMPERATURE"`
		MaxContextTokens int     `env:"LLM_MAX_CONTEXT_TOKENS"`
		OutputReserve    int     `env:"LLM_OUTPUT_RESERVE"`
	}

	TTS struct {
		Language     string  `env:"TTS_LANGUAGE"`
		Voice        string  `env:"TTS_VOICE"`
		SpeakingRate float64 `env:"TTS_SPEAKING_RATE"`
	}

	MaxAudioJobs  int64         `env:"MAX_AUDIO_JOBS"`
	QueueSize     int           `env:"JOB_QUEUE_SIZE"`
	DedupWindow   int           `env:"WEBHOOK_DEDUP_WINDOW"`
	SweepSchedule string        `env:"SWEEP_SCHEDULE"`
	SweepTTL      time.Duration `env:"SWEEP_TTL"`
}

// Defaults returns a config with sensible values for everything that can
// have one. Secrets and the public base URL have no default.
func Defaults() *Config {
	cfg := &Config{
		Port:          8080,
		DataDir:       "data",
		WebDir:        "web",
		LogLevel:      "info",
		MaxAudioJobs:  2,
		QueueSize:     64,
		DedupWindow:   1000,
		SweepSchedule: "@every 1h",
		SweepTTL:      6 * time.Hour,
	}
	cfg.LLM.BaseURL = "https://api.openai.com/v1"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.LLM.MaxTokens = 2000
	cfg.LLM.Temperature = 0.7
	cfg.LLM.MaxContextTokens = 128000
	cfg.LLM.OutputReserve = 4096
	cfg.TTS.Language = "en-US"
	cfg.TTS.Voice = "en-US-Neural2-C"
	cfg.TTS.SpeakingRate = 1.0
	return cfg
}

// Load reads a .env file if present, then overlays environment variables
// on the defaults and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on settings the service cannot run without.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("WEBAPP_BASE_URL is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MaxAudioJobs < 1 {
		return fmt.Errorf("MAX_AUDIO_JOBS must be at least 1")
	}
	if c.DedupWindow < 1 {
		return fmt.Errorf("WEBHOOK_DEDUP_WINDOW must be at least 1")
	}
	return nil
}

// UseGCS reports whether the object store should be Google Cloud Storage.
func (c *Config) UseGCS() bool {
	return c.GCSBucket != ""
}

// ListenAddr builds the HTTP bind address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
