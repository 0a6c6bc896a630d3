package scraper

import (
	"testing"

	"github.com/nolantphillips/nhl-predictors/internal/model"
)

func shotAt(clock string, team int64) *model.PlayEvent {
	return &model.PlayEvent{
		TypeDescKey:  TypeShotOnGoal,
		TimeInPeriod: clock,
		Details:      model.EventDetails{EventOwnerTeamID: team},
	}
}

func prevEvent(typeKey, clock, zone string, team int64) *model.PlayEvent {
	return &model.PlayEvent{
		TypeDescKey:  typeKey,
		TimeInPeriod: clock,
		Details:      model.EventDetails{ZoneCode: zone, EventOwnerTeamID: team},
	}
}

// ---- Rebound tests ----

func TestIsRebound_NoPrev(t *testing.T) {
	got, err := IsRebound(shotAt("10:02", 1), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected no rebound without a preceding event")
	}
}

func TestIsRebound_Windows(t *testing.T) {
	cases := []struct {
		name     string
		prevType string
		prevTime string
		shotTime string
		want     bool
	}{
		{"shot-on-goal at 2s", TypeShotOnGoal, "10:00", "10:02", true},
		{"missed-shot at 3s boundary", TypeMissedShot, "10:00", "10:03", true},
		{"missed-shot at 4s", TypeMissedShot, "10:00", "10:04", false},
		{"blocked-shot at 2s boundary", TypeBlockedShot, "10:00", "10:02", true},
		{"blocked-shot at 3s", TypeBlockedShot, "10:00", "10:03", false},
		{"faceoff at 1s", "faceoff", "10:00", "10:01", false},
		{"goal at 1s", TypeGoal, "10:00", "10:01", false},
	}
	for _, c := range cases {
		prev := prevEvent(c.prevType, c.prevTime, "O", 1)
		got, err := IsRebound(shotAt(c.shotTime, 1), prev)
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: want rebound=%v, got %v", c.name, c.want, got)
		}
	}
}

// ---- Rush tests ----

func TestIsRush_NoPrev(t *testing.T) {
	got, err := IsRush(shotAt("10:02", 1), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected no rush without a preceding event")
	}
}

func TestIsRush_StoppagesNeverRush(t *testing.T) {
	// Zone and team would otherwise imply a rush; the stoppage must win.
	for _, typeKey := range []string{"stoppage", "faceoff", "goal", "penalty", "period-start", "period-end", "game-end"} {
		prev := prevEvent(typeKey, "10:00", "N", 1)
		got, err := IsRush(shotAt("10:01", 1), prev)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", typeKey, err)
		}
		if got {
			t.Errorf("%s: stoppage-class event must not produce a rush", typeKey)
		}
	}
}

func TestIsRush_Zones(t *testing.T) {
	const shooter, opponent int64 = 10, 20
	cases := []struct {
		name string
		zone string
		team int64
		want bool
	}{
		{"neutral zone", "N", opponent, true},
		{"defensive zone, same team", "D", shooter, true},
		{"defensive zone, other team", "D", opponent, false},
		{"offensive zone, other team", "O", opponent, true},
		{"offensive zone, same team", "O", shooter, false},
		{"unknown zone", "", shooter, false},
	}
	for _, c := range cases {
		prev := prevEvent("hit", "10:00", c.zone, c.team)
		got, err := IsRush(shotAt("10:02", shooter), prev)
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: want rush=%v, got %v", c.name, c.want, got)
		}
	}
}

func TestIsRush_TimeWindow(t *testing.T) {
	prev := prevEvent("hit", "10:00", "N", 1)
	// 4s is inside the window, 5s is not.
	got, err := IsRush(shotAt("10:04", 1), prev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected rush at exactly 4s")
	}
	got, err = IsRush(shotAt("10:05", 1), prev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected no rush at 5s")
	}
}

// ---- Danger zone tests ----

func TestDangerZone_HighSlot(t *testing.T) {
	// Everything in front of the crease band is high danger, both rink ends.
	for x := 69.0; x <= 89; x++ {
		for y := -6.0; y <= 6; y++ {
			if got := DangerZone(x, y); got != DangerHigh {
				t.Fatalf("DangerZone(%.0f, %.0f): want high, got %s", x, y, got)
			}
			if got := DangerZone(-x, y); got != DangerHigh {
				t.Fatalf("DangerZone(%.0f, %.0f): want high, got %s", -x, y, got)
			}
		}
	}
}

func TestDangerZone_WideMidRangeIsLow(t *testing.T) {
	for x := 44.0; x < 69; x++ {
		for _, y := range []float64{22.5, 30, -25} {
			if got := DangerZone(x, y); got != DangerLow {
				t.Fatalf("DangerZone(%.0f, %.1f): want low, got %s", x, y, got)
			}
		}
	}
}

func TestDangerZone_Boundaries(t *testing.T) {
	cases := []struct {
		x, y float64
		want string
	}{
		{85, 3, DangerHigh},
		{89, 6, DangerHigh},
		{-89, -6, DangerHigh},
		{85, 8, DangerMed},  // boundary -0.8*85+77.2 = 9.2
		{85, 10, DangerLow}, // above the linear boundary
		{70, 21, DangerMed}, // boundary -0.8*70+77.2 = 21.2
		{70, 22, DangerLow},
		{44, 22, DangerMed},
		{68, 22, DangerMed},
		{69, 7, DangerMed}, // boundary -0.8*69+77.2 = 22.0
		{43, 0, DangerLow}, // short of the mid band
		{90, 0, DangerLow}, // behind the net band
		{0, 0, DangerLow},
	}
	for _, c := range cases {
		if got := DangerZone(c.x, c.y); got != c.want {
			t.Errorf("DangerZone(%.0f, %.0f): want %s, got %s", c.x, c.y, c.want, got)
		}
	}
}
