package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"soundcatalog/config"
	"soundcatalog/logger"
	"soundcatalog/server"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "soundcatalog",
	Short: "soundcatalog serves a genre-indexed music catalog.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		return logger.InitLogger(logger.Config{
			Level:      cfg.LogLevel,
			OutputPath: cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Starting soundcatalog server...")
		return server.Start(cfg)
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
