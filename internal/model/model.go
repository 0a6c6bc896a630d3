package model

// ---- Raw play-by-play events from the NHL feed ----

// PlayEvent is one event in a game's chronological play-by-play sequence.
// Read-only: the feed produces it, the scraper only inspects it.
type PlayEvent struct {
	TypeDescKey           string       `json:"typeDescKey"`
	TimeInPeriod          string       `json:"timeInPeriod"` // period clock, "MM:SS"
	SituationCode         string       `json:"situationCode"`
	HomeTeamDefendingSide string       `json:"homeTeamDefendingSide"`
	Details               EventDetails `json:"details"`
}

// EventDetails carries the spatial and role-specific fields of a play event.
// Coordinate pointers are nil when the feed omits them; player/team ids are
// 0 when absent.
type EventDetails struct {
	XCoord           *float64 `json:"xCoord"`
	YCoord           *float64 `json:"yCoord"`
	ZoneCode         string   `json:"zoneCode"` // "O", "N", or "D"
	EventOwnerTeamID int64    `json:"eventOwnerTeamId"`
	ShootingPlayerID int64    `json:"shootingPlayerId"`
	ScoringPlayerID  int64    `json:"scoringPlayerId"`
	GoalieInNetID    int64    `json:"goalieInNetId"`
	ShotType         string   `json:"shotType"`
}

// GameFeed is one game's play-by-play as returned by the feed provider.
type GameFeed struct {
	ID         int64
	HomeTeamID int64
	AwayTeamID int64
	Plays      []PlayEvent
}

// PlayerStats is the cached identity and role stat triple for one player.
// For goaltenders Hand is the catch hand and CareerPct the career save
// percentage; for skaters Hand is the shooting hand and CareerPct the career
// shooting percentage. CareerPct is nil when the league has no career stat
// for the player.
type PlayerStats struct {
	Name      string
	Position  string
	Hand      string
	CareerPct *float64
}

// ---- Derived rows ----

// ShotRecord is one flat row per qualifying unblocked shot attempt.
// Assembled once by the scraper and never mutated afterwards.
type ShotRecord struct {
	GameID      int64
	EventIdx    int // position within the game's play sequence
	TeamID      int64
	Home        int // 1 if the shooting team is the home side
	HomeDefSide string
	LastPlay    string // previous event type, "" when first in sequence
	Rebound     int
	Rush        int
	HomeSkaters int
	AwaySkaters int
	XCoord      float64
	YCoord      float64

	ShooterID         int64
	Shooter           string
	Position          string
	Shoots            string
	CareerShootingPct *float64

	GoalieID      int64 // 0 if no goaltender in net
	Goalie        string
	GoalieCatches string
	CareerSavePct *float64

	ShotType   string
	Zone       string
	ShotClass  string // "missed-shot", "goal", or "shot-on-goal"
	DangerZone string // "low", "med", or "high"
}

// FeatureRow is one model-ready row of the xG feature table. Identifier and
// raw-coordinate columns are already dropped.
type FeatureRow struct {
	Home        int
	LastPlay    string
	Rebound     int
	Rush        int
	HomeSkaters int
	AwaySkaters int

	Position          string
	CareerShootingPct *float64
	CareerSavePct     *float64

	ShotType    string
	ShotClass   string
	DangerZone  string
	ShotOnGlove string // shooter hand + goalie catch hand, "" if either unknown

	Distance      float64
	ShotAngle     float64 // degrees, rounded to 3 decimals
	DangerNumeric int
	ShotValue     int
	Situation     string // "EV", "PP", or "SH"
}

// ScrapeDiagnostics counts what a scrape run kept and what it dropped, per
// reason. Skipped events are otherwise visible only in logs.
type ScrapeDiagnostics struct {
	GamesFetched     int
	EventsSeen       int // Fenwick events examined
	ShotsKept        int
	SkippedSituation int // shooting side in an invalid situation-code state
	SkippedNoShooter int
	SkippedNoCoords  int
	SkippedErrors    int // unexpected per-event failures
}

// Skipped returns the total number of dropped events.
func (d *ScrapeDiagnostics) Skipped() int {
	return d.SkippedSituation + d.SkippedNoShooter + d.SkippedNoCoords + d.SkippedErrors
}

// Merge folds another game's diagnostics into d.
func (d *ScrapeDiagnostics) Merge(o ScrapeDiagnostics) {
	d.GamesFetched += o.GamesFetched
	d.EventsSeen += o.EventsSeen
	d.ShotsKept += o.ShotsKept
	d.SkippedSituation += o.SkippedSituation
	d.SkippedNoShooter += o.SkippedNoShooter
	d.SkippedNoCoords += o.SkippedNoCoords
	d.SkippedErrors += o.SkippedErrors
}

// GameShotCount is a lightweight per-game record for the list command.
type GameShotCount struct {
	GameID int64
	Shots  int
	Goals  int
}
