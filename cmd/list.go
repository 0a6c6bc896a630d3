package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nolantphillips/nhl-predictors/internal/report"
	"github.com/nolantphillips/nhl-predictors/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored games and their shot counts",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	counts, err := db.GameShotCounts()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(counts) == 0 {
		fmt.Fprintln(os.Stdout, "No shots stored.")
		return nil
	}
	report.PrintGameTable(os.Stdout, counts)
	return nil
}
