package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nolantphillips/nhl-predictors/internal/nhl"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List game ids for the configured teams and seasons",
	Long: `Resolves non-exhibition game ids from the team season schedules and
prints one id per line, suitable for piping into scrape.`,
	RunE: runGames,
}

func init() {
	gamesCmd.Flags().IntSliceVar(&scrapeSeasons, "seasons", nil, "seasons to list, e.g. 20242025 (default from config)")
	gamesCmd.Flags().StringSliceVar(&scrapeTeams, "teams", nil, "team abbreviations (default all teams)")
}

func runGames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client := nhl.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	ids, err := discoverGameIDs(client, cfg)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(os.Stdout, id)
	}
	fmt.Fprintf(os.Stderr, "%d games\n", len(ids))
	return nil
}
