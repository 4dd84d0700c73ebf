package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mealbot",
	Short: "Telegram meal-tracking assistant bot",
	Long:  "mealbot answers Telegram commands, describes photos, and extracts meal data from free-form messages.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
