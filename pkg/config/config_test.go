package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func clearOptionalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_BASE_URL", "OPENAI_MODEL",
		"WEATHER_API_KEY", "WEATHER_CITY",
		"N8N_WEBHOOK", "HOOK_ADDR",
		"MEALBOT_LOG_FORMAT", "MEALBOT_LOG_LEVEL", "MEALBOT_LOG_ADD_SOURCE",
	} {
		// t.Setenv registers the restore; Unsetenv makes the variable
		// truly absent so envDefault applies.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	clearOptionalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q, want gpt-4o-mini", cfg.OpenAI.Model)
	}
	if cfg.Weather.City != "Warsaw" {
		t.Fatalf("city = %q, want Warsaw", cfg.Weather.City)
	}
	if cfg.Hook.Addr != ":8090" {
		t.Fatalf("hook addr = %q, want :8090", cfg.Hook.Addr)
	}
	if cfg.WeatherEnabled() {
		t.Fatal("expected weather disabled without credential")
	}
	if cfg.WebhookEnabled() {
		t.Fatal("expected webhook disabled without URL")
	}
}

func TestLoadMissingBotToken(t *testing.T) {
	clearOptionalEnv(t)
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing BOT_TOKEN")
	}
}

func TestLoadMissingOpenAIKey(t *testing.T) {
	clearOptionalEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing OPENAI_API_KEY")
	}
}

func TestLoadOptionalFeatures(t *testing.T) {
	setRequiredEnv(t)
	clearOptionalEnv(t)
	t.Setenv("WEATHER_API_KEY", "w-key")
	t.Setenv("N8N_WEBHOOK", "https://hooks.example/meals")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if !cfg.WeatherEnabled() {
		t.Fatal("expected weather enabled")
	}
	if !cfg.WebhookEnabled() {
		t.Fatal("expected webhook enabled")
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Fatalf("model = %q, want gpt-4o", cfg.OpenAI.Model)
	}
}
