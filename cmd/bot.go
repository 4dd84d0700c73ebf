package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mealbot/pkg/channel/telegram"
	"mealbot/pkg/completion"
	"mealbot/pkg/config"
	"mealbot/pkg/dispatch"
	"mealbot/pkg/handler"
	"mealbot/pkg/ingest"
	"mealbot/pkg/logger"
	"mealbot/pkg/weather"
	"mealbot/pkg/webhook"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long:  "Loads configuration from the environment, wires all handlers, and runs Telegram long polling until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			os.Exit(1)
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.bot")

		adapter, err := telegram.NewAdapter(cfg.Telegram, appLogger)
		if err != nil {
			log.Error("Failed to initialize telegram channel", "error", err)
			os.Exit(1)
		}

		llm, err := completion.New(cfg.OpenAI)
		if err != nil {
			log.Error("Failed to initialize completion client", "error", err)
			os.Exit(1)
		}

		dispatcher, err := buildDispatcher(cfg, adapter, adapter, llm, appLogger)
		if err != nil {
			log.Error("Failed to wire dispatcher", "error", err)
			os.Exit(1)
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("Bot started",
			"model", cfg.OpenAI.Model,
			"weather", cfg.WeatherEnabled(),
			"webhook", cfg.WebhookEnabled(),
		)
		if err := adapter.Run(runCtx, dispatcher.Dispatch); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Bot runtime failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}

// botCompleter is the completion surface the handlers need: text
// completions for the pipeline and vision completions for photos.
type botCompleter interface {
	ingest.Completer
	handler.ImageDescriber
}

// buildDispatcher assembles the static handler registry and binds it to
// the reply sink. The registry is never mutated after this.
func buildDispatcher(cfg *config.Config, sink dispatch.Sink, files handler.FileFetcher, llm botCompleter, log *slog.Logger) (*dispatch.Dispatcher, error) {
	var weatherService handler.WeatherService
	if cfg.WeatherEnabled() {
		client, err := weather.New(cfg.Weather.APIKey)
		if err != nil {
			return nil, fmt.Errorf("initialize weather client: %w", err)
		}
		weatherService = client
	}

	var forwarder ingest.Forwarder
	if cfg.WebhookEnabled() {
		client, err := webhook.New(cfg.Webhook.URL)
		if err != nil {
			return nil, fmt.Errorf("initialize webhook client: %w", err)
		}
		forwarder = client
	}

	pipeline, err := ingest.New(llm, forwarder, log)
	if err != nil {
		return nil, fmt.Errorf("initialize ingestion pipeline: %w", err)
	}

	registry := dispatch.NewRegistry().
		Command("start", handler.Start()).
		Command("fact", handler.Fact()).
		Command("motivate", handler.Motivate()).
		Command("news", handler.News()).
		Command("weather", handler.Weather(weatherService, cfg.Weather.City, log)).
		Photo(handler.Image(files, llm, log)).
		Text(pipeline.Handler())

	return dispatch.NewDispatcher(registry, sink, log)
}
