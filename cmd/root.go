package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ranges-cli",
	Short: "Archery range directory import tool",
	Long:  "Ingests spreadsheet exports of archery ranges into the region/locality/facility directory, with preview and idempotent upsert modes.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
