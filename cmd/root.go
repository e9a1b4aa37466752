package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "settlement-cli",
	Short: "Regional settlement framework construction and territory evaluation",
	Long:  "Builds settlement framework graphs from locality registries and accessibility matrices, classifies localities into tiers, detects agglomerations, aggregates indicators, and scores territory locations.",
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
