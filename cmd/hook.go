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

	"mealbot/pkg/config"
	"mealbot/pkg/hook"
	"mealbot/pkg/logger"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run the local nutrition hook server",
	Long:  "Serves a webhook-style nutrition endpoint that estimates calories for forwarded meals.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadHook()
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
		log := slog.Default().With("component", "cmd.hook")

		server, err := hook.NewServer(cfg.Hook, appLogger)
		if err != nil {
			log.Error("Failed to initialize hook server", "error", err)
			os.Exit(1)
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.Run(runCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Hook server failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
