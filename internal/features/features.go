// Package features turns raw game logs into model inputs.
package features

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/boxscore/backend/internal/domain"
)

// RollingWindow is the number of games in the rolling averages
const RollingWindow = 5

// Names lists the model features in column order
var Names = []string{
	"Rolling_Avg_PTS",
	"Rolling_Avg_REB",
	"Rolling_Avg_AST",
	"MINUTES_PLAYED",
	"FGM_PCT",
	"FTM_PCT",
	"FG3M_PCT",
}

// Row is a preprocessed game
type Row struct {
	Game domain.GameLog
	Home bool

	RollingAvgPTS float64
	RollingAvgREB float64
	RollingAvgAST float64

	AvgPTS float64
	AvgAST float64
	AvgREB float64

	MinutesPlayed float64
	FGMPct        float64
	FTMPct        float64
	FG3MPct       float64
}

// Vector returns the row's model features in Names order
func (r Row) Vector() []float64 {
	return []float64{
		r.RollingAvgPTS,
		r.RollingAvgREB,
		r.RollingAvgAST,
		r.MinutesPlayed,
		r.FGMPct,
		r.FTMPct,
		r.FG3MPct,
	}
}

// Preprocess orders games chronologically and derives rolling, expanding and shooting features.
// The first RollingWindow-1 games are dropped because their rolling window is incomplete.
func Preprocess(logs []domain.GameLog) []Row {
	games := make([]domain.GameLog, len(logs))
	copy(games, logs)
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].GameDate.Before(games[j].GameDate)
	})

	var sumPTS, sumAST, sumREB float64
	rows := make([]Row, 0, len(games))
	for i, g := range games {
		sumPTS += g.PTS
		sumAST += g.AST
		sumREB += g.REB
		n := float64(i + 1)

		if i < RollingWindow-1 {
			continue
		}
		window := games[i-RollingWindow+1 : i+1]

		rows = append(rows, Row{
			Game:          g,
			Home:          !g.IsAway(),
			RollingAvgPTS: windowMean(window, domain.StatPoints),
			RollingAvgREB: windowMean(window, domain.StatRebounds),
			RollingAvgAST: windowMean(window, domain.StatAssists),
			AvgPTS:        sumPTS / n,
			AvgAST:        sumAST / n,
			AvgREB:        sumREB / n,
			MinutesPlayed: g.MIN,
			FGMPct:        pct(g.FGM, g.FGA),
			FTMPct:        pct(g.FTM, g.FTA),
			FG3MPct:       pct(g.FG3M, g.FG3A),
		})
	}
	return rows
}

func windowMean(games []domain.GameLog, s domain.Stat) float64 {
	vals := make([]float64, len(games))
	for i, g := range games {
		vals[i] = g.Value(s)
	}
	return stat.Mean(vals, nil)
}

// pct is zero for zero attempts
func pct(made, attempted float64) float64 {
	if attempted == 0 {
		return 0
	}
	return made / attempted
}

// Matrix returns the feature matrix, one row per game
func Matrix(rows []Row) [][]float64 {
	X := make([][]float64, len(rows))
	for i, r := range rows {
		X[i] = r.Vector()
	}
	return X
}

// Target returns the stat column to learn
func Target(rows []Row, s domain.Stat) []float64 {
	y := make([]float64, len(rows))
	for i, r := range rows {
		y[i] = r.Game.Value(s)
	}
	return y
}

// MeanVector averages every feature column; it is the input for the next-game prediction
func MeanVector(rows []Row) []float64 {
	if len(rows) == 0 {
		return make([]float64, len(Names))
	}
	mean := make([]float64, len(Names))
	for _, r := range rows {
		floats.Add(mean, r.Vector())
	}
	floats.Scale(1/float64(len(rows)), mean)
	return mean
}
