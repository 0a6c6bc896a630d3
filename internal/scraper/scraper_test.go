package scraper

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/nolantphillips/nhl-predictors/internal/model"
)

const (
	homeTeam int64 = 10
	awayTeam int64 = 20
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeFeedProvider serves canned feeds and can fail per game.
type fakeFeedProvider struct {
	feeds map[int64]*model.GameFeed
	fail  map[int64]bool
}

func (p *fakeFeedProvider) PlayByPlay(gameID int64) (*model.GameFeed, error) {
	if p.fail[gameID] {
		return nil, fmt.Errorf("feed unavailable")
	}
	feed, ok := p.feeds[gameID]
	if !ok {
		return nil, fmt.Errorf("unknown game %d", gameID)
	}
	return feed, nil
}

func coord(v float64) *float64 { return &v }

// shotEvent builds a qualifying shot-on-goal by the given team with sane
// defaults. Fields are tweaked by the tests.
func shotEvent(clock string, team int64) model.PlayEvent {
	return model.PlayEvent{
		TypeDescKey:           TypeShotOnGoal,
		TimeInPeriod:          clock,
		SituationCode:         "1551",
		HomeTeamDefendingSide: "left",
		Details: model.EventDetails{
			XCoord:           coord(80),
			YCoord:           coord(5),
			ZoneCode:         "O",
			EventOwnerTeamID: team,
			ShootingPlayerID: 7001,
			GoalieInNetID:    7099,
			ShotType:         "wrist",
		},
	}
}

func feedOf(gameID int64, plays ...model.PlayEvent) *model.GameFeed {
	return &model.GameFeed{ID: gameID, HomeTeamID: homeTeam, AwayTeamID: awayTeam, Plays: plays}
}

func newTestScraper(feeds *fakeFeedProvider, workers int) (*Scraper, *fakeStatsProvider) {
	stats := newFakeStatsProvider()
	return New(feeds, NewStatsCache(stats), discard, workers), stats
}

func TestExtractShots_Basic(t *testing.T) {
	feeds := &fakeFeedProvider{feeds: map[int64]*model.GameFeed{
		1: feedOf(1,
			model.PlayEvent{TypeDescKey: "faceoff", TimeInPeriod: "00:00", SituationCode: "1551"},
			shotEvent("00:10", homeTeam),
		),
	}}
	s, _ := newTestScraper(feeds, 1)

	shots, diag, err := s.ExtractShots([]int64{1})
	if err != nil {
		t.Fatalf("ExtractShots: %v", err)
	}
	if len(shots) != 1 {
		t.Fatalf("expected 1 shot, got %d", len(shots))
	}

	rec := shots[0]
	if rec.GameID != 1 || rec.EventIdx != 1 {
		t.Errorf("unexpected identity: game=%d idx=%d", rec.GameID, rec.EventIdx)
	}
	if rec.Home != 1 {
		t.Error("home team shot must set Home=1")
	}
	if rec.LastPlay != "faceoff" {
		t.Errorf("LastPlay: want faceoff, got %q", rec.LastPlay)
	}
	if rec.HomeSkaters != 5 || rec.AwaySkaters != 5 {
		t.Errorf("skaters: want 5/5, got %d/%d", rec.HomeSkaters, rec.AwaySkaters)
	}
	if rec.DangerZone != DangerHigh {
		t.Errorf("DangerZone at (80,5): want high, got %s", rec.DangerZone)
	}
	if rec.Shooter != "Player 7001" || rec.Goalie != "Player 7099" {
		t.Errorf("unexpected identities: %q / %q", rec.Shooter, rec.Goalie)
	}
	if diag.ShotsKept != 1 || diag.GamesFetched != 1 || diag.Skipped() != 0 {
		t.Errorf("unexpected diagnostics: %+v", diag)
	}
}

func TestExtractShots_NonFenwickIgnored(t *testing.T) {
	feeds := &fakeFeedProvider{feeds: map[int64]*model.GameFeed{
		1: feedOf(1,
			model.PlayEvent{TypeDescKey: "hit", TimeInPeriod: "01:00", SituationCode: "1551"},
			model.PlayEvent{TypeDescKey: "blocked-shot", TimeInPeriod: "01:05", SituationCode: "1551"},
			model.PlayEvent{TypeDescKey: "giveaway", TimeInPeriod: "01:10", SituationCode: "1551"},
		),
	}}
	s, stats := newTestScraper(feeds, 1)

	shots, diag, err := s.ExtractShots([]int64{1})
	if err != nil {
		t.Fatalf("ExtractShots: %v", err)
	}
	if len(shots) != 0 || diag.EventsSeen != 0 {
		t.Errorf("expected no qualifying events, got %d shots, %d seen", len(shots), diag.EventsSeen)
	}
	if len(stats.calls) != 0 {
		t.Error("no player lookups expected for non-shot events")
	}
}

func TestExtractShots_GoalUsesScoringPlayer(t *testing.T) {
	goal := shotEvent("05:00", awayTeam)
	goal.TypeDescKey = TypeGoal
	goal.Details.ShootingPlayerID = 0
	goal.Details.ScoringPlayerID = 7002

	feeds := &fakeFeedProvider{feeds: map[int64]*model.GameFeed{1: feedOf(1, goal)}}
	s, stats := newTestScraper(feeds, 1)

	shots, _, err := s.ExtractShots([]int64{1})
	if err != nil {
		t.Fatalf("ExtractShots: %v", err)
	}
	if len(shots) != 1 {
		t.Fatalf("expected 1 shot, got %d", len(shots))
	}
	if shots[0].ShooterID != 7002 {
		t.Errorf("goal shooter: want scoring player 7002, got %d", shots[0].ShooterID)
	}
	if shots[0].Home != 0 {
		t.Error("away team goal must set Home=0")
	}
	if stats.calls[7002] != 1 {
		t.Errorf("expected scoring player lookup, calls=%v", stats.calls)
	}
}

func TestExtractShots_SkipReasons(t *testing.T) {
	noShooter := shotEvent("01:00", homeTeam)
	noShooter.Details.ShootingPlayerID = 0

	noCoords := shotEvent("02:00", homeTeam)
	noCoords.Details.XCoord = nil

	emptyNetHome := shotEvent("03:00", homeTeam)
	emptyNetHome.SituationCode = "0551" // digit 0 flags the home shooter's side

	emptyNetAway := shotEvent("04:00", awayTeam)
	emptyNetAway.SituationCode = "1550"

	feeds := &fakeFeedProvider{feeds: map[int64]*model.GameFeed{
		1: feedOf(1, noShooter, noCoords, emptyNetHome, emptyNetAway, shotEvent("05:00", homeTeam)),
	}}
	s, _ := newTestScraper(feeds, 1)

	shots, diag, err := s.ExtractShots([]int64{1})
	if err != nil {
		t.Fatalf("ExtractShots: %v", err)
	}
	if len(shots) != 1 {
		t.Fatalf("expected only the valid shot to survive, got %d", len(shots))
	}
	if diag.SkippedNoShooter != 1 {
		t.Errorf("SkippedNoShooter: want 1, got %d", diag.SkippedNoShooter)
	}
	if diag.SkippedNoCoords != 1 {
		t.Errorf("SkippedNoCoords: want 1, got %d", diag.SkippedNoCoords)
	}
	if diag.SkippedSituation != 2 {
		t.Errorf("SkippedSituation: want 2, got %d", diag.SkippedSituation)
	}
	if diag.EventsSeen != 5 || diag.ShotsKept != 1 {
		t.Errorf("unexpected diagnostics: %+v", diag)
	}
}

func TestExtractShots_BadSituationCodeCountsAsError(t *testing.T) {
	bad := shotEvent("01:00", homeTeam)
	bad.SituationCode = "15x1"

	feeds := &fakeFeedProvider{feeds: map[int64]*model.GameFeed{1: feedOf(1, bad)}}
	s, _ := newTestScraper(feeds, 1)

	shots, diag, err := s.ExtractShots([]int64{1})
	if err != nil {
		t.Fatalf("ExtractShots: %v", err)
	}
	if len(shots) != 0 || diag.SkippedErrors != 1 {
		t.Errorf("malformed situation code should be an isolated per-event error, got %d shots, %+v", len(shots), diag)
	}
}

func TestExtractShots_ReboundTiming(t *testing.T) {
	// Previous missed shot at 10:00; shot at 10:02 is a rebound, at 10:04 not.
	miss := shotEvent("10:00", homeTeam)
	miss.TypeDescKey = TypeMissedShot
	rebound := shotEvent("10:02", homeTeam)
	late := shotEvent("10:04", homeTeam)

	feeds := &fakeFeedProvider{feeds: map[int64]*model.GameFeed{
		1: feedOf(1, miss, rebound),
		2: feedOf(2, miss, late),
	}}
	s, _ := newTestScraper(feeds, 1)

	shots, _, err := s.ExtractShots([]int64{1, 2})
	if err != nil {
		t.Fatalf("ExtractShots: %v", err)
	}
	if len(shots) != 4 {
		t.Fatalf("expected 4 shots, got %d", len(shots))
	}
	if shots[1].Rebound != 1 {
		t.Error("shot 2s after a missed shot must be a rebound")
	}
	if shots[1].LastPlay != TypeMissedShot {
		t.Errorf("LastPlay: want %s, got %q", TypeMissedShot, shots[1].LastPlay)
	}
	if shots[3].Rebound != 0 {
		t.Error("shot 4s after a missed shot must not be a rebound")
	}
}

func TestExtractShots_NoGoalieUsesPlaceholder(t *testing.T) {
	open := shotEvent("01:00", homeTeam)
	open.Details.GoalieInNetID = 0

	feeds := &fakeFeedProvider{feeds: map[int64]*model.GameFeed{1: feedOf(1, open)}}
	s, stats := newTestScraper(feeds, 1)

	shots, _, err := s.ExtractShots([]int64{1})
	if err != nil {
		t.Fatalf("ExtractShots: %v", err)
	}
	if len(shots) != 1 {
		t.Fatalf("expected 1 shot, got %d", len(shots))
	}
	rec := shots[0]
	if rec.GoalieID != 0 || rec.Goalie != "" || rec.GoalieCatches != "" || rec.CareerSavePct != nil {
		t.Errorf("expected empty goalie placeholder, got %+v", rec)
	}
	if stats.calls[0] != 0 {
		t.Error("no lookup expected for absent goalie")
	}
}

func TestExtractShots_StatsErrorSkipsEvent(t *testing.T) {
	feeds := &fakeFeedProvider{feeds: map[int64]*model.GameFeed{
		1: feedOf(1, shotEvent("01:00", homeTeam), shotEvent("05:00", homeTeam)),
	}}
	stats := newFakeStatsProvider()
	stats.fail[7099] = true // goalie lookups fail
	s := New(feeds, NewStatsCache(stats), discard, 1)

	shots, diag, err := s.ExtractShots([]int64{1})
	if err != nil {
		t.Fatalf("provider errors must stay per-event, got run error: %v", err)
	}
	if len(shots) != 0 {
		t.Errorf("expected all events skipped, got %d shots", len(shots))
	}
	if diag.SkippedErrors != 2 {
		t.Errorf("SkippedErrors: want 2, got %d", diag.SkippedErrors)
	}
}

func TestExtractShots_FetchFailureAbortsRun(t *testing.T) {
	feeds := &fakeFeedProvider{
		feeds: map[int64]*model.GameFeed{1: feedOf(1, shotEvent("01:00", homeTeam))},
		fail:  map[int64]bool{2: true},
	}
	s, _ := newTestScraper(feeds, 1)

	shots, _, err := s.ExtractShots([]int64{1, 2})
	if err == nil {
		t.Fatal("expected a run-level error when a game fetch fails")
	}
	if shots != nil {
		t.Errorf("expected nil records on total failure, got %d", len(shots))
	}
}

func TestExtractShots_ParallelMatchesSequential(t *testing.T) {
	feeds := &fakeFeedProvider{feeds: map[int64]*model.GameFeed{}}
	var gameIDs []int64
	for g := int64(1); g <= 8; g++ {
		miss := shotEvent("10:00", homeTeam)
		miss.TypeDescKey = TypeMissedShot
		feeds.feeds[g] = feedOf(g, miss, shotEvent("10:02", awayTeam), shotEvent("15:00", homeTeam))
		gameIDs = append(gameIDs, g)
	}

	seq, _ := newTestScraper(feeds, 1)
	wantShots, wantDiag, err := seq.ExtractShots(gameIDs)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}

	par, _ := newTestScraper(feeds, 4)
	gotShots, gotDiag, err := par.ExtractShots(gameIDs)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if !reflect.DeepEqual(wantShots, gotShots) {
		t.Error("parallel output differs from sequential baseline")
	}
	if wantDiag != gotDiag {
		t.Errorf("diagnostics differ: sequential %+v, parallel %+v", wantDiag, gotDiag)
	}
}

func TestExtractShots_ParallelFetchFailure(t *testing.T) {
	feeds := &fakeFeedProvider{
		feeds: map[int64]*model.GameFeed{},
		fail:  map[int64]bool{5: true},
	}
	var gameIDs []int64
	for g := int64(1); g <= 8; g++ {
		feeds.feeds[g] = feedOf(g, shotEvent("01:00", homeTeam))
		gameIDs = append(gameIDs, g)
	}

	s, _ := newTestScraper(feeds, 3)
	shots, _, err := s.ExtractShots(gameIDs)
	if err == nil {
		t.Fatal("expected a run-level error")
	}
	if shots != nil {
		t.Errorf("expected nil records on total failure, got %d", len(shots))
	}
}

// ---- Game id resolution ----

type fakeSchedule struct {
	requests [][2]any // (abbrev, season) in call order
	games    map[string][]int64
}

func (f *fakeSchedule) TeamAbbrevs() ([]string, error) { return nil, nil }

func (f *fakeSchedule) TeamSeasonGames(abbrev string, season int) ([]int64, error) {
	f.requests = append(f.requests, [2]any{abbrev, season})
	return f.games[fmt.Sprintf("%s/%d", abbrev, season)], nil
}

func TestGameIDs_DedupAndSort(t *testing.T) {
	sched := &fakeSchedule{games: map[string][]int64{
		"BOS/20242025": {3, 1, 2},
		"TOR/20242025": {2, 4}, // 2 appears for both teams
	}}
	ids, err := GameIDs(sched, []string{"BOS", "TOR"}, []int{20242025})
	if err != nil {
		t.Fatalf("GameIDs: %v", err)
	}
	want := []int64{1, 2, 3, 4}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("want %v, got %v", want, ids)
	}
}

func TestGameIDs_LegacyAbbrevRemap(t *testing.T) {
	sched := &fakeSchedule{games: map[string][]int64{}}
	if _, err := GameIDs(sched, []string{"UTA"}, []int{20232024, 20242025}); err != nil {
		t.Fatalf("GameIDs: %v", err)
	}

	want := [][2]any{{"ARI", 20232024}, {"UTA", 20242025}}
	if !reflect.DeepEqual(sched.requests, want) {
		t.Errorf("schedule requests: want %v, got %v", want, sched.requests)
	}
}
