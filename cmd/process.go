package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nolantphillips/nhl-predictors/internal/features"
	"github.com/nolantphillips/nhl-predictors/internal/report"
	"github.com/nolantphillips/nhl-predictors/internal/storage"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Derive model-ready xG features from stored shots",
	Long: `Reads the stored raw shot table, derives the geometric and categorical
model features (distance, shot angle, shot value, situation), filters rows
outside the model population, and replaces the stored feature table.`,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	shots, err := db.ListShots()
	if err != nil {
		return fmt.Errorf("load shots: %w", err)
	}
	if len(shots) == 0 {
		return fmt.Errorf("no shots stored, run scrape first")
	}

	rows := features.NewProcessor().Process(shots)
	if err := db.ReplaceFeatures(rows); err != nil {
		return fmt.Errorf("store features: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Processed %d shots into %d feature rows.\n\n", len(shots), len(rows))
	report.PrintFeatureSummary(os.Stdout, rows)
	return nil
}
