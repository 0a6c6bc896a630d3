// Package scraper extracts Fenwick shot events from NHL play-by-play feeds
// and flattens them into one record per qualifying shot attempt.
package scraper

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/nolantphillips/nhl-predictors/internal/model"
)

// Seasons before this cutoff use Arizona's legacy abbreviation for the Utah
// franchise.
const legacySeasonCutoff = 20242025

// GameFeedProvider fetches one game's play-by-play sequence.
type GameFeedProvider interface {
	PlayByPlay(gameID int64) (*model.GameFeed, error)
}

// ScheduleProvider resolves team abbreviations and per-season schedules.
type ScheduleProvider interface {
	TeamAbbrevs() ([]string, error)
	TeamSeasonGames(abbrev string, season int) ([]int64, error)
}

// GameIDs resolves the non-exhibition game ids for the given team
// abbreviations across seasons, deduplicated and sorted. "UTA" is remapped to
// "ARI" for seasons before the franchise relocation.
func GameIDs(schedule ScheduleProvider, abbrevs []string, seasons []int) ([]int64, error) {
	seen := make(map[int64]struct{})
	for _, ab := range abbrevs {
		for _, season := range seasons {
			abbrev := ab
			if abbrev == "UTA" && season < legacySeasonCutoff {
				abbrev = "ARI"
			}
			ids, err := schedule.TeamSeasonGames(abbrev, season)
			if err != nil {
				return nil, fmt.Errorf("schedule %s %d: %w", abbrev, season, err)
			}
			for _, id := range ids {
				seen[id] = struct{}{}
			}
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Scraper walks play-by-play feeds and emits one ShotRecord per qualifying
// unblocked shot attempt (goal, shot-on-goal, missed-shot).
type Scraper struct {
	feeds   GameFeedProvider
	cache   *StatsCache
	log     *slog.Logger
	workers int
	onGame  func(gameID int64, shots int)
}

// New returns a Scraper. workers bounds how many games are fetched and
// scanned concurrently; values below 2 give the sequential baseline. Events
// within a game are always processed in order, since rebound and rush
// classification depend on the immediately preceding event.
func New(feeds GameFeedProvider, cache *StatsCache, log *slog.Logger, workers int) *Scraper {
	if log == nil {
		log = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Scraper{feeds: feeds, cache: cache, log: log, workers: workers}
}

// SetProgress registers a callback invoked after each game is scanned, in
// game order.
func (s *Scraper) SetProgress(fn func(gameID int64, shots int)) {
	s.onGame = fn
}

// ExtractShots fetches and scans every game in gameIDs and returns the flat
// shot table in game-then-event order, plus per-reason skip diagnostics.
//
// Failure handling is deliberately asymmetric: a problem with a single event
// is logged and that event skipped, but a failed play-by-play fetch aborts
// the whole run: nil records and the fetch error are returned, so callers
// can tell total failure from a lossy-but-complete table.
func (s *Scraper) ExtractShots(gameIDs []int64) ([]model.ShotRecord, model.ScrapeDiagnostics, error) {
	if s.workers <= 1 {
		return s.extractSequential(gameIDs)
	}
	return s.extractParallel(gameIDs)
}

func (s *Scraper) extractSequential(gameIDs []int64) ([]model.ShotRecord, model.ScrapeDiagnostics, error) {
	var (
		records []model.ShotRecord
		diag    model.ScrapeDiagnostics
	)
	for _, gameID := range gameIDs {
		feed, err := s.feeds.PlayByPlay(gameID)
		if err != nil {
			return nil, model.ScrapeDiagnostics{}, fmt.Errorf("play-by-play %d: %w", gameID, err)
		}
		recs, gd := s.scanGame(feed)
		records = append(records, recs...)
		diag.Merge(gd)
		if s.onGame != nil {
			s.onGame(gameID, len(recs))
		}
	}
	return records, diag, nil
}

func (s *Scraper) extractParallel(gameIDs []int64) ([]model.ShotRecord, model.ScrapeDiagnostics, error) {
	type gameResult struct {
		records []model.ShotRecord
		diag    model.ScrapeDiagnostics
		err     error
	}
	results := make([]gameResult, len(gameIDs))

	jobs := make(chan int)
	var failed atomic.Bool
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if failed.Load() {
					continue
				}
				feed, err := s.feeds.PlayByPlay(gameIDs[i])
				if err != nil {
					results[i].err = fmt.Errorf("play-by-play %d: %w", gameIDs[i], err)
					failed.Store(true)
					continue
				}
				results[i].records, results[i].diag = s.scanGame(feed)
			}
		}()
	}
	for i := range gameIDs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Collect in game order so output matches the sequential baseline.
	var (
		records []model.ShotRecord
		diag    model.ScrapeDiagnostics
	)
	for i, res := range results {
		if res.err != nil {
			return nil, model.ScrapeDiagnostics{}, res.err
		}
		records = append(records, res.records...)
		diag.Merge(res.diag)
		if s.onGame != nil {
			s.onGame(gameIDs[i], len(res.records))
		}
	}
	return records, diag, nil
}

// scanGame walks one game's plays in order. Each event sees its predecessor
// via an index-minus-one lookup; this must stay sequential.
func (s *Scraper) scanGame(feed *model.GameFeed) ([]model.ShotRecord, model.ScrapeDiagnostics) {
	var (
		records []model.ShotRecord
		diag    model.ScrapeDiagnostics
	)
	diag.GamesFetched = 1

	for idx := range feed.Plays {
		play := &feed.Plays[idx]
		if !IsFenwick(play.TypeDescKey) {
			continue
		}
		diag.EventsSeen++

		var prev *model.PlayEvent
		if idx > 0 {
			prev = &feed.Plays[idx-1]
		}

		rec, ok, err := s.shotRecord(feed, idx, play, prev, &diag)
		if err != nil {
			diag.SkippedErrors++
			s.log.Warn("skipping play",
				"game", feed.ID, "event", idx, "type", play.TypeDescKey, "err", err)
			continue
		}
		if !ok {
			continue
		}
		diag.ShotsKept++
		records = append(records, rec)
	}
	return records, diag
}

// shotRecord assembles one ShotRecord, or reports a silent skip (ok=false,
// with the matching diagnostics counter bumped) or an unexpected error.
func (s *Scraper) shotRecord(feed *model.GameFeed, idx int, play, prev *model.PlayEvent, diag *model.ScrapeDiagnostics) (model.ShotRecord, bool, error) {
	var rec model.ShotRecord

	teamID := play.Details.EventOwnerTeamID
	home := 0
	if teamID == feed.HomeTeamID {
		home = 1
	}
	away := 0
	if teamID == feed.AwayTeamID {
		away = 1
	}

	code := play.SituationCode
	if !validSituationCode(code) {
		return rec, false, fmt.Errorf("situation code %q", code)
	}
	// Digit 0 flags the state for home shooters, digit 3 for away shooters;
	// a "0" there marks the shooting side's empty-net-equivalent situation.
	if (home == 1 && code[0] == '0') || (away == 1 && code[3] == '0') {
		diag.SkippedSituation++
		return rec, false, nil
	}

	shooterID := play.Details.ShootingPlayerID
	if play.TypeDescKey == TypeGoal {
		shooterID = play.Details.ScoringPlayerID
	}
	if shooterID == 0 {
		diag.SkippedNoShooter++
		return rec, false, nil
	}
	shooter, err := s.cache.Lookup(shooterID)
	if err != nil {
		return rec, false, fmt.Errorf("shooter %d stats: %w", shooterID, err)
	}

	rebound, err := IsRebound(play, prev)
	if err != nil {
		return rec, false, err
	}
	rush, err := IsRush(play, prev)
	if err != nil {
		return rec, false, err
	}

	if play.Details.XCoord == nil || play.Details.YCoord == nil {
		diag.SkippedNoCoords++
		return rec, false, nil
	}
	x, y := *play.Details.XCoord, *play.Details.YCoord

	var goalie model.PlayerStats
	goalieID := play.Details.GoalieInNetID
	if goalieID != 0 {
		goalie, err = s.cache.Lookup(goalieID)
		if err != nil {
			return rec, false, fmt.Errorf("goalie %d stats: %w", goalieID, err)
		}
	}

	lastPlay := ""
	if prev != nil {
		lastPlay = prev.TypeDescKey
	}

	rec = model.ShotRecord{
		GameID:      feed.ID,
		EventIdx:    idx,
		TeamID:      teamID,
		Home:        home,
		HomeDefSide: play.HomeTeamDefendingSide,
		LastPlay:    lastPlay,
		Rebound:     boolInt(rebound),
		Rush:        boolInt(rush),
		HomeSkaters: int(code[2] - '0'),
		AwaySkaters: int(code[1] - '0'),
		XCoord:      x,
		YCoord:      y,

		ShooterID:         shooterID,
		Shooter:           shooter.Name,
		Position:          shooter.Position,
		Shoots:            shooter.Hand,
		CareerShootingPct: shooter.CareerPct,

		GoalieID:      goalieID,
		Goalie:        goalie.Name,
		GoalieCatches: goalie.Hand,
		CareerSavePct: goalie.CareerPct,

		ShotType:   play.Details.ShotType,
		Zone:       play.Details.ZoneCode,
		ShotClass:  play.TypeDescKey,
		DangerZone: DangerZone(x, y),
	}
	return rec, true, nil
}

func validSituationCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
