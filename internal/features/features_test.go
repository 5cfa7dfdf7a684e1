package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxscore/backend/internal/domain"
)

func game(day int, pts, reb, ast float64, matchup string) domain.GameLog {
	return domain.GameLog{
		GameID:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC).Format("20060102"),
		GameDate: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Matchup:  matchup,
		MIN:      30,
		PTS:      pts,
		REB:      reb,
		AST:      ast,
		FGM:      5,
		FGA:      10,
		FTM:      3,
		FTA:      4,
		FG3M:     0,
		FG3A:     0,
	}
}

func TestPreprocessSortsAndDropsIncompleteWindow(t *testing.T) {
	// newest first, the way the stats API serves them
	logs := []domain.GameLog{
		game(6, 30, 6, 6, "BOS vs. NYK"),
		game(5, 25, 5, 5, "BOS @ NYK"),
		game(4, 20, 4, 4, "BOS vs. MIA"),
		game(3, 15, 3, 3, "BOS @ MIA"),
		game(2, 10, 2, 2, "BOS vs. LAL"),
		game(1, 5, 1, 1, "BOS @ LAL"),
	}

	rows := Preprocess(logs)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 5, first.Game.GameDate.Day())
	assert.False(t, first.Home)
	assert.InDelta(t, 15.0, first.RollingAvgPTS, 1e-9) // 5..25
	assert.InDelta(t, 3.0, first.RollingAvgREB, 1e-9)
	assert.InDelta(t, 3.0, first.RollingAvgAST, 1e-9)
	assert.InDelta(t, 15.0, first.AvgPTS, 1e-9)

	second := rows[1]
	assert.True(t, second.Home)
	assert.InDelta(t, 20.0, second.RollingAvgPTS, 1e-9) // 10..30
	assert.InDelta(t, 17.5, second.AvgPTS, 1e-9)        // 5..30

	assert.InDelta(t, 0.5, second.FGMPct, 1e-9)
	assert.InDelta(t, 0.75, second.FTMPct, 1e-9)
	assert.Equal(t, 0.0, second.FG3MPct)
}

func TestPreprocessTooFewGames(t *testing.T) {
	rows := Preprocess([]domain.GameLog{game(1, 10, 1, 1, "BOS vs. LAL")})
	assert.Empty(t, rows)
}

func TestMatrixTargetAndMean(t *testing.T) {
	var logs []domain.GameLog
	for d := 1; d <= 7; d++ {
		logs = append(logs, game(d, float64(d*2), 1, 1, "BOS vs. LAL"))
	}
	rows := Preprocess(logs)
	require.Len(t, rows, 3)

	X := Matrix(rows)
	require.Len(t, X, 3)
	assert.Len(t, X[0], len(Names))

	assert.Equal(t, []float64{10, 12, 14}, Target(rows, domain.StatPoints))
	assert.Equal(t, []float64{1, 1, 1}, Target(rows, domain.StatRebounds))

	mean := MeanVector(rows)
	assert.InDelta(t, 8.0, mean[0], 1e-9) // rolling means 6, 8, 10
	assert.InDelta(t, 30.0, mean[3], 1e-9)
}
