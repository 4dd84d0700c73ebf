package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the root runtime configuration, read from the environment once
// at startup and never re-read afterwards.
type Config struct {
	Telegram TelegramConfig
	OpenAI   OpenAIConfig
	Weather  WeatherConfig
	Webhook  WebhookConfig
	Hook     HookConfig
	Logging  LoggingConfig
}

// TelegramConfig holds the bot transport credential.
type TelegramConfig struct {
	Token string `env:"BOT_TOKEN"`
}

// OpenAIConfig configures the completion collaborator.
type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// WeatherConfig configures the weather lookup. An empty APIKey degrades the
// feature instead of failing startup.
type WeatherConfig struct {
	APIKey string `env:"WEATHER_API_KEY"`
	City   string `env:"WEATHER_CITY" envDefault:"Warsaw"`
}

// WebhookConfig configures the forwarding stage destination. An empty URL
// disables forwarding.
type WebhookConfig struct {
	URL string `env:"N8N_WEBHOOK"`
}

// HookConfig configures the local nutrition hook server.
type HookConfig struct {
	Addr string `env:"HOOK_ADDR" envDefault:":8090"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `env:"MEALBOT_LOG_FORMAT" envDefault:"text"`
	Level     string `env:"MEALBOT_LOG_LEVEL" envDefault:"info"`
	AddSource bool   `env:"MEALBOT_LOG_ADD_SOURCE"`
}

// Load parses configuration from the environment and validates required
// credentials.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// HookProcess is the configuration subset for the hook server process,
// which needs no chat or completion credentials.
type HookProcess struct {
	Hook    HookConfig
	Logging LoggingConfig
}

// LoadHook parses hook server configuration from the environment.
func LoadHook() (*HookProcess, error) {
	var cfg HookProcess
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return &cfg, nil
}

// validate enforces the required-credential contract: the process refuses
// to start without the bot token and the completion credential.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("BOT_TOKEN is required")
	}
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(c.OpenAI.Model) == "" {
		return errors.New("OPENAI_MODEL must not be empty")
	}

	return nil
}

// WeatherEnabled reports whether the weather feature has a credential.
func (c *Config) WeatherEnabled() bool {
	return strings.TrimSpace(c.Weather.APIKey) != ""
}

// WebhookEnabled reports whether the forwarding stage has a destination.
func (c *Config) WebhookEnabled() bool {
	return strings.TrimSpace(c.Webhook.URL) != ""
}
