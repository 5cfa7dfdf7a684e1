package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxscore/backend/internal/domain"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		mock.ExpectClose()
		require.NoError(t, db.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})
	return NewPostgresRepository(db), mock
}

func TestSaveGameLogs(t *testing.T) {
	repo, mock := newMock(t)

	date := time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC)
	logs := []domain.GameLog{
		{PlayerID: 1628369, GameID: "0022401199", SeasonID: "22024", GameDate: date, Matchup: "BOS vs. CHA", WL: "W", MIN: 31, PTS: 27, REB: 8, AST: 5},
		{PlayerID: 1628369, GameID: "0022401185", SeasonID: "22024", GameDate: date.AddDate(0, 0, -2), Matchup: "BOS @ ORL", WL: "L", MIN: 36, PTS: 27},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO game_logs")
	prep.ExpectExec().
		WithArgs(1628369, "0022401199", "22024", date, "BOS vs. CHA", "W",
			31.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 8.0, 5.0, 0.0, 0.0, 27.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveGameLogs(context.Background(), logs))
}

func TestSaveGameLogsRollsBackOnError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO game_logs").ExpectExec().WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.SaveGameLogs(context.Background(), []domain.GameLog{{PlayerID: 1, GameID: "g1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: failed to save game log g1")
}

func TestSaveGameLogsEmpty(t *testing.T) {
	repo, _ := newMock(t)
	assert.NoError(t, repo.SaveGameLogs(context.Background(), nil))
}

func TestCareerAverageVsOpponent(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT AVG(pts)")).
		WithArgs(1628369, "LAL").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(26.5))

	avg, err := repo.CareerAverageVsOpponent(context.Background(), 1628369, "LAL", domain.StatPoints)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 26.5, *avg)
}

func TestCareerAverageVsOpponentMatchesOpponentPosition(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("AND split_part(matchup, ' ', 3) = $2")).
		WithArgs(7, "LAL").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(10.0))

	avg, err := repo.CareerAverageVsOpponent(context.Background(), 7, "LAL", domain.StatPoints)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 10.0, *avg)
}

func TestCareerAverageVsOpponentNoData(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT AVG(ast)")).
		WithArgs(1, "MIA").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

	avg, err := repo.CareerAverageVsOpponent(context.Background(), 1, "MIA", domain.StatAssists)
	require.NoError(t, err)
	assert.Nil(t, avg)
}

func TestCareerAverageVsOpponentRejectsUnknownStat(t *testing.T) {
	repo, _ := newMock(t)
	_, err := repo.CareerAverageVsOpponent(context.Background(), 1, "MIA", domain.Stat("BLK; DROP TABLE"))
	assert.ErrorIs(t, err, domain.ErrInvalidStat)
}

func TestSavePrediction(t *testing.T) {
	repo, mock := newMock(t)

	p := domain.MatchupPrediction{
		ID:        "0b7c5a0e-3f7e-4d4b-9a55-6f8d1b8e1a01",
		Request:   domain.PredictionRequest{HomeTeam: "BOS", AwayTeam: "LAL", Model: domain.ModelLinear, Stat: domain.StatPoints},
		Home:      domain.TeamPrediction{Team: "BOS", Opponent: "LAL", Total: 112.5},
		Away:      domain.TeamPrediction{Team: "LAL", Opponent: "BOS", Total: 108.25},
		CreatedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO prediction_logs").
		WithArgs(p.ID, "BOS", "LAL", "linear", "PTS", 112.5, 108.25, sqlmock.AnyArg(), p.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SavePrediction(context.Background(), p))
}

func TestListPredictions(t *testing.T) {
	repo, mock := newMock(t)

	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, home_team, away_team").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "home_team", "away_team", "model", "stat", "home_total", "away_total", "created_at"}).
			AddRow("a", "BOS", "LAL", "xgboost", "PTS", 110.0, 105.0, created))

	got, err := repo.ListPredictions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.PredictionSummary{
		ID: "a", HomeTeam: "BOS", AwayTeam: "LAL", Model: domain.ModelXGBoost, Stat: domain.StatPoints,
		HomeTotal: 110, AwayTotal: 105, CreatedAt: created,
	}, got[0])
}

func TestListPredictionsEmpty(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT id, home_team, away_team").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "home_team", "away_team", "model", "stat", "home_total", "away_total", "created_at"}))

	got, err := repo.ListPredictions(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMigrateAndHealth(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS game_logs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPing()

	require.NoError(t, repo.Migrate(context.Background()))
	require.NoError(t, repo.Health(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
