package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/nolantphillips/nhl-predictors/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintScrapeSummary prints a one-line summary of a scrape run followed by
// the per-reason skip counts.
func PrintScrapeSummary(w io.Writer, diag model.ScrapeDiagnostics) {
	fmt.Fprintf(w, "\nGames: %d  |  Fenwick events: %d  |  Shots kept: %d  |  Skipped: %d\n",
		diag.GamesFetched, diag.EventsSeen, diag.ShotsKept, diag.Skipped())
	if diag.Skipped() > 0 {
		fmt.Fprintf(w, "  skipped: situation=%d no-shooter=%d no-coords=%d errors=%d\n",
			diag.SkippedSituation, diag.SkippedNoShooter, diag.SkippedNoCoords, diag.SkippedErrors)
	}
	fmt.Fprintln(w)
}

// PrintShotTable prints a per-game breakdown of scraped shots.
func PrintShotTable(w io.Writer, shots []model.ShotRecord) {
	type gameRow struct {
		shots, goals, rebounds, rushes int
		high, med, low                 int
	}
	byGame := make(map[int64]*gameRow)
	var order []int64
	for _, s := range shots {
		g := byGame[s.GameID]
		if g == nil {
			g = &gameRow{}
			byGame[s.GameID] = g
			order = append(order, s.GameID)
		}
		g.shots++
		if s.ShotClass == "goal" {
			g.goals++
		}
		g.rebounds += s.Rebound
		g.rushes += s.Rush
		switch s.DangerZone {
		case "high":
			g.high++
		case "med":
			g.med++
		case "low":
			g.low++
		}
	}

	table := newTable(w)
	table.Header("GAME", "SHOTS", "GOALS", "REBOUND", "RUSH", "HIGH", "MED", "LOW")
	for _, id := range order {
		g := byGame[id]
		table.Append(
			strconv.FormatInt(id, 10),
			strconv.Itoa(g.shots),
			strconv.Itoa(g.goals),
			strconv.Itoa(g.rebounds),
			strconv.Itoa(g.rushes),
			strconv.Itoa(g.high),
			strconv.Itoa(g.med),
			strconv.Itoa(g.low),
		)
	}
	table.Render()
}

// PrintGameTable prints stored per-game shot counts.
func PrintGameTable(w io.Writer, counts []model.GameShotCount) {
	table := newTable(w)
	table.Header("GAME", "SHOTS", "GOALS")
	for _, c := range counts {
		table.Append(
			strconv.FormatInt(c.GameID, 10),
			strconv.Itoa(c.Shots),
			strconv.Itoa(c.Goals),
		)
	}
	table.Render()
}

// PrintFeatureSummary prints the feature table broken down by situation.
func PrintFeatureSummary(w io.Writer, rows []model.FeatureRow) {
	type sitRow struct {
		shots, goals      int
		distSum, angleSum float64
		valueSum          int
	}
	bySit := make(map[string]*sitRow)
	for _, r := range rows {
		s := bySit[r.Situation]
		if s == nil {
			s = &sitRow{}
			bySit[r.Situation] = s
		}
		s.shots++
		if r.ShotClass == "goal" {
			s.goals++
		}
		s.distSum += r.Distance
		s.angleSum += r.ShotAngle
		s.valueSum += r.ShotValue
	}

	table := newTable(w)
	table.Header("SITUATION", "SHOTS", "GOALS", "AVG DIST", "AVG ANGLE", "AVG VALUE")
	for _, sit := range []string{"EV", "PP", "SH"} {
		s := bySit[sit]
		if s == nil {
			continue
		}
		n := float64(s.shots)
		table.Append(
			sit,
			strconv.Itoa(s.shots),
			strconv.Itoa(s.goals),
			fmt.Sprintf("%.1f", s.distSum/n),
			fmt.Sprintf("%.1f", s.angleSum/n),
			fmt.Sprintf("%.2f", float64(s.valueSum)/n),
		)
	}
	table.Render()
}
