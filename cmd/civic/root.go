package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Keshavsspppp/municipality/internal/infrastructure/config"
)

var rootCmd = &cobra.Command{
	Use:   "civic",
	Short: "Municipal comment grouping and pothole detection services",
	Long: `Runs one of the municipality HTTP services.

Configuration comes from defaults, an optional YAML file (--config) and
CIVIC_* environment variables. GROQ_API_KEY is honoured for the LLM key.`,
	SilenceUsage: true,
}

func loadConfig() (*config.Config, error) {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.AddCommand(commentsCmd, detectionCmd)
}
