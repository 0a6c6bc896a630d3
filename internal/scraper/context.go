package scraper

import (
	"math"

	"github.com/nolantphillips/nhl-predictors/internal/model"
)

// Event type keys used by the play-by-play feed.
const (
	TypeShotOnGoal  = "shot-on-goal"
	TypeMissedShot  = "missed-shot"
	TypeGoal        = "goal"
	TypeBlockedShot = "blocked-shot"
)

// Danger zone labels.
const (
	DangerLow  = "low"
	DangerMed  = "med"
	DangerHigh = "high"
)

// fenwickTypes are the unblocked shot attempt types that produce a ShotRecord.
var fenwickTypes = map[string]bool{
	TypeMissedShot: true,
	TypeGoal:       true,
	TypeShotOnGoal: true,
}

// stoppages are event types after which a shot cannot be a rush chance:
// play was dead or restarting immediately before the attempt.
var stoppages = map[string]bool{
	"stoppage":     true,
	"faceoff":      true,
	"goal":         true,
	"penalty":      true,
	"period-start": true,
	"period-end":   true,
	"game-end":     true,
}

// IsFenwick reports whether the event type is an unblocked shot attempt.
func IsFenwick(typeDescKey string) bool {
	return fenwickTypes[typeDescKey]
}

// IsRebound reports whether play rebounds prev: a blocked shot within 2
// seconds, or another unblocked attempt within 3 seconds. False when there is
// no preceding event.
func IsRebound(play, prev *model.PlayEvent) (bool, error) {
	if prev == nil {
		return false, nil
	}
	diff, err := SecondsBetween(play.TimeInPeriod, prev.TimeInPeriod)
	if err != nil {
		return false, err
	}
	if prev.TypeDescKey == TypeBlockedShot && diff <= 2 {
		return true, nil
	}
	if (prev.TypeDescKey == TypeMissedShot || prev.TypeDescKey == TypeShotOnGoal) && diff <= 3 {
		return true, nil
	}
	return false, nil
}

// IsRush reports whether play is a rush chance: within 4 seconds of a live
// preceding event that implies a zone transition: any neutral-zone event,
// a defensive-zone event by the shooting team, or an offensive-zone event by
// the opponent. False when the preceding zone is unknown.
func IsRush(play, prev *model.PlayEvent) (bool, error) {
	if prev == nil {
		return false, nil
	}
	if stoppages[prev.TypeDescKey] {
		return false, nil
	}
	diff, err := SecondsBetween(play.TimeInPeriod, prev.TimeInPeriod)
	if err != nil {
		return false, err
	}
	if diff > 4 {
		return false, nil
	}

	shootingTeam := play.Details.EventOwnerTeamID
	switch prev.Details.ZoneCode {
	case "N":
		return true, nil
	case "D":
		return prev.Details.EventOwnerTeamID == shootingTeam, nil
	case "O":
		return prev.Details.EventOwnerTeamID != shootingTeam, nil
	}
	return false, nil
}

// DangerZone classifies shot coordinates into the low/med/high scoring-chance
// partition, with the attacking net at x=89. The zone boundaries follow the
// War-on-Ice definitions and are a fixed hand-tuned geometry.
func DangerZone(x, y float64) string {
	xa := math.Abs(x)
	ya := math.Abs(y)

	switch {
	case 69 <= xa && xa <= 89 && ya <= 6:
		return DangerHigh
	case 69 <= xa && xa <= 89 && ya <= 22:
		if ya <= -0.8*xa+77.2 {
			return DangerMed
		}
		return DangerLow
	case 44 <= xa && xa < 69 && ya <= 22:
		return DangerMed
	default:
		return DangerLow
	}
}
