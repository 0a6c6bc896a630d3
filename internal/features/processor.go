// Package features derives the model-ready xG feature table from raw shot
// records: geometric columns, categorical game-state columns, and the
// row-level filters that define the model population.
package features

import (
	"math"

	"github.com/nolantphillips/nhl-predictors/internal/model"
)

// goalLineX is the absolute x coordinate of the attacking net.
const goalLineX = 89

var dangerNumeric = map[string]int{
	"low":  1,
	"med":  2,
	"high": 3,
}

// Processor is a pure batch transform over an assembled shot table.
type Processor struct{}

// NewProcessor returns a Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Process converts raw shot records into model-ready feature rows. Rows where
// either side has fewer than 3 skaters, or where no goaltender was in net,
// are dropped; no rows are ever added. Identifier and raw-coordinate columns
// are dropped by virtue of the FeatureRow schema.
func (p *Processor) Process(shots []model.ShotRecord) []model.FeatureRow {
	rows := make([]model.FeatureRow, 0, len(shots))
	for _, s := range shots {
		if s.HomeSkaters < 3 || s.AwaySkaters < 3 {
			continue
		}
		if s.GoalieID == 0 {
			continue
		}

		dn := dangerNumeric[s.DangerZone]
		rows = append(rows, model.FeatureRow{
			Home:        s.Home,
			LastPlay:    s.LastPlay,
			Rebound:     s.Rebound,
			Rush:        s.Rush,
			HomeSkaters: s.HomeSkaters,
			AwaySkaters: s.AwaySkaters,

			Position:          s.Position,
			CareerShootingPct: s.CareerShootingPct,
			CareerSavePct:     s.CareerSavePct,

			ShotType:    s.ShotType,
			ShotClass:   s.ShotClass,
			DangerZone:  s.DangerZone,
			ShotOnGlove: shotOnGlove(s.Shoots, s.GoalieCatches),

			Distance:      distance(s.XCoord, s.YCoord),
			ShotAngle:     shotAngle(s.XCoord, s.YCoord),
			DangerNumeric: dn,
			ShotValue:     dn + s.Rebound + s.Rush,
			Situation:     situation(s.Home, s.HomeSkaters, s.AwaySkaters),
		})
	}
	return rows
}

// shotOnGlove combines shooter handedness with the goalie's catch hand, e.g.
// "RL" for a right shot on a left catcher. Empty when either is unknown.
func shotOnGlove(shoots, catches string) string {
	if shoots == "" || catches == "" {
		return ""
	}
	return shoots + catches
}

func distance(x, y float64) float64 {
	return math.Hypot(x, y)
}

// shotAngle returns the shot angle in degrees off the net's center line,
// rounded to 3 decimals. Shots from at or behind the goal line extended get
// a fixed 90 degrees.
func shotAngle(x, y float64) float64 {
	dx := goalLineX - math.Abs(x)
	if dx <= 0 {
		return 90
	}
	deg := math.Atan2(math.Abs(y), dx) * 180 / math.Pi
	return math.Round(deg*1000) / 1000
}

// situation labels the game state from the shooting team's perspective:
// "PP" more skaters than the defenders, "SH" fewer, "EV" equal.
func situation(home, homeSkaters, awaySkaters int) string {
	shooting, defending := awaySkaters, homeSkaters
	if home == 1 {
		shooting, defending = homeSkaters, awaySkaters
	}
	switch {
	case shooting > defending:
		return "PP"
	case shooting < defending:
		return "SH"
	default:
		return "EV"
	}
}
