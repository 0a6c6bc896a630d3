package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nolantphillips/nhl-predictors/internal/config"
	"github.com/nolantphillips/nhl-predictors/internal/nhl"
	"github.com/nolantphillips/nhl-predictors/internal/report"
	"github.com/nolantphillips/nhl-predictors/internal/scraper"
	"github.com/nolantphillips/nhl-predictors/internal/storage"
)

var (
	scrapeSeasons []int
	scrapeTeams   []string
	scrapeWorkers int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [gameID...]",
	Short: "Scrape Fenwick shot events and store them",
	Long: `Fetches play-by-play for the requested games, extracts unblocked shot
attempts (goals, shots on goal, missed shots) with rebound/rush/danger-zone
context and player career stats, and stores them in the local database.

With no game ids, games are discovered from the team schedules for the
configured seasons.

Examples:
  nhlxg scrape 2024020345 2024020346
  nhlxg scrape --seasons 20242025 --teams BOS,TOR
  nhlxg scrape --workers 4`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().IntSliceVar(&scrapeSeasons, "seasons", nil, "seasons to scrape, e.g. 20242025 (default from config)")
	scrapeCmd.Flags().StringSliceVar(&scrapeTeams, "teams", nil, "team abbreviations to discover games for (default all teams)")
	scrapeCmd.Flags().IntVar(&scrapeWorkers, "workers", 0, "games fetched concurrently (default from config)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	client := nhl.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	gameIDs, err := resolveGameIDs(client, cfg, args)
	if err != nil {
		return err
	}
	if len(gameIDs) == 0 {
		return fmt.Errorf("no games to scrape")
	}

	workers := scrapeWorkers
	if workers == 0 {
		workers = cfg.Scrape.Workers
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Scraping %d games...\n", len(gameIDs))
	cache := scraper.NewStatsCache(client)
	sc := scraper.New(client, cache, logger, workers)
	done := 0
	sc.SetProgress(func(gameID int64, shots int) {
		done++
		fmt.Fprintf(os.Stdout, "  [%d/%d] game %d: %d shots\n", done, len(gameIDs), gameID, shots)
	})

	shots, diag, err := sc.ExtractShots(gameIDs)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	if err := db.InsertShots(shots); err != nil {
		return fmt.Errorf("store shots: %w", err)
	}

	report.PrintScrapeSummary(os.Stdout, diag)
	report.PrintShotTable(os.Stdout, shots)
	return nil
}

// resolveGameIDs parses explicit game-id arguments, or discovers games from
// team schedules when none are given.
func resolveGameIDs(client *nhl.Client, cfg *config.Config, args []string) ([]int64, error) {
	if len(args) > 0 {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid game id %q", arg)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	return discoverGameIDs(client, cfg)
}

func discoverGameIDs(client *nhl.Client, cfg *config.Config) ([]int64, error) {
	seasons := scrapeSeasons
	if len(seasons) == 0 {
		seasons = cfg.Scrape.Seasons
	}
	teams := scrapeTeams
	if len(teams) == 0 {
		teams = cfg.Scrape.Teams
	}
	if len(teams) == 0 {
		var err error
		teams, err = client.TeamAbbrevs()
		if err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}
	}
	ids, err := scraper.GameIDs(client, teams, seasons)
	if err != nil {
		return nil, fmt.Errorf("discover games: %w", err)
	}
	return ids, nil
}
