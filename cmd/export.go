package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nolantphillips/nhl-predictors/internal/model"
	"github.com/nolantphillips/nhl-predictors/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the feature table as CSV",
	Long: `Writes the stored model-ready feature table as CSV for training.
Missing career percentages are written as empty fields.

Example:
  nhlxg export --out features.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.ListFeatures()
	if err != nil {
		return fmt.Errorf("load features: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no features stored, run process first")
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	if err := writeFeatureCSV(w, rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(rows), exportOut)
	}
	return nil
}

func writeFeatureCSV(w io.Writer, rows []model.FeatureRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"home", "last_play", "rebound", "rush", "home_skaters", "away_skaters",
		"position", "career_shooting_pct", "career_save_pct",
		"shot_type", "shot_class", "danger_zone", "shot_on_glove",
		"distance", "shot_angle", "danger_numeric", "shot_value", "situation",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Home),
			r.LastPlay,
			strconv.Itoa(r.Rebound),
			strconv.Itoa(r.Rush),
			strconv.Itoa(r.HomeSkaters),
			strconv.Itoa(r.AwaySkaters),
			r.Position,
			formatPct(r.CareerShootingPct),
			formatPct(r.CareerSavePct),
			r.ShotType,
			r.ShotClass,
			r.DangerZone,
			r.ShotOnGlove,
			strconv.FormatFloat(r.Distance, 'f', -1, 64),
			strconv.FormatFloat(r.ShotAngle, 'f', -1, 64),
			strconv.Itoa(r.DangerNumeric),
			strconv.Itoa(r.ShotValue),
			r.Situation,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatPct(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
