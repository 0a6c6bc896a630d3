package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nolantphillips/nhl-predictors/internal/config"
)

var (
	dbPath  string
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "nhlxg",
	Short: "NHL shot scraping and xG feature tool",
	Long:  "Scrape NHL play-by-play shot events and derive model-ready xG features.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".nhlxg", "shots.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadConfig loads the config file and resolves the db path: an explicit
// --db flag wins, then storage.db_path from the config, then the default.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("db") && cfg.Storage.DBPath != "" {
		dbPath = cfg.Storage.DBPath
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	}))
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
