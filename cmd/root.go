package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/inovspin/inovspin/internal/config"
	"github.com/inovspin/inovspin/internal/logging"
	"github.com/inovspin/inovspin/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "inovspin",
	Short: "Predictive maintenance for electric motors",
	Long: "inovspin scores motor sensor readings with a trained classifier and engineering " +
		"thresholds, and keeps an append-only history of every decision.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides INOVSPIN_DB env var)")
	rootCmd.PersistentFlags().String("model", "", "Path to the classifier artifact (overrides model.path)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers flags over the file and environment configuration.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("model"); p != "" {
		c.Model.Path = p
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Log.Level = lvl
	}

	l, err := logging.New(os.Stderr, c.Log.Level, c.Log.Format)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	cfg, logger = c, l
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.db_path from config, then INOVSPIN_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Store.DBPath != "" {
		return cfg.Store.DBPath, store.EnsureDir(cfg.Store.DBPath)
	}
	return store.DefaultDBPath()
}
