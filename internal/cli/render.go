package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/boxscore/backend/internal/domain"
)

const separatorWidth = 50

func nameWidth(names []string) int {
	w := 0
	for _, n := range names {
		if nw := runewidth.StringWidth(n); nw > w {
			w = nw
		}
	}
	return w
}

func totalLabel(s domain.Stat) string {
	if s == domain.StatPoints {
		return "Score"
	}
	unit := s.Unit()
	return strings.ToUpper(unit[:1]) + unit[1:]
}

func renderTeamPrediction(w io.Writer, tp domain.TeamPrediction, req domain.PredictionRequest) {
	fmt.Fprintf(w, "Analyzing %d players from %s against %s...\n", len(tp.Players)+len(tp.Warnings), tp.Team, tp.Opponent)
	for _, warn := range tp.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}

	names := make([]string, len(tp.Players))
	for i, p := range tp.Players {
		names[i] = p.PlayerName
	}
	width := nameWidth(names)

	unit := req.Stat.Unit()
	for _, p := range tp.Players {
		career := "No data available"
		if p.CareerAvgVsOpponent != nil {
			career = fmt.Sprintf("%.1f", *p.CareerAvgVsOpponent)
		}
		fmt.Fprintf(w, "%s: %5.1f %s (Career Avg vs %s: %s)  [test MSE %.2f (± %.2f)]\n",
			runewidth.FillRight(p.PlayerName, width), p.Predicted, unit, tp.Opponent, career, p.TestMSE, p.TestRMSE)
	}

	sep := strings.Repeat("=", separatorWidth)
	fmt.Fprintln(w)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "%s Predictions for %s against %s:\n", req.Model.Label(), tp.Team, tp.Opponent)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "\nTotal Predicted %s for %s: %.1f %s\n\n", totalLabel(req.Stat), tp.Team, tp.Total, unit)
}

func renderSimulation(w io.Writer, sim domain.ThreePointSimulation) {
	fmt.Fprintf(w, "Three-point simulation for %s against %s (%d iterations)\n", sim.Team, sim.Opponent, sim.Iterations)
	for _, warn := range sim.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}

	names := make([]string, len(sim.Players))
	for i, p := range sim.Players {
		names[i] = p.PlayerName
	}
	width := nameWidth(names)

	for _, p := range sim.Players {
		fmt.Fprintf(w, "%s: %4.1f 3PA  %5.1f%%  -> %4.2f made\n",
			runewidth.FillRight(p.PlayerName, width), p.MeanAttempts, p.Percentage*100, p.MeanMade)
	}
	fmt.Fprintln(w, strings.Repeat("=", separatorWidth))
	fmt.Fprintf(w, "%s threes made: %.1f (p10 %.0f, p90 %.0f)\n\n", sim.Team, sim.TeamMean, sim.TeamP10, sim.TeamP90)
}

func renderTeams(w io.Writer, teams []domain.Team) {
	for _, t := range teams {
		fmt.Fprintf(w, "%s  %s\n", t.Abbreviation, t.FullName)
	}
}
