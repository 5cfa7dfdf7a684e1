package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxscore/backend/internal/domain"
	"github.com/boxscore/backend/internal/logger"
	"github.com/boxscore/backend/internal/repository/postgres"
	"github.com/boxscore/backend/internal/service"
)

type stubStats struct {
	down  bool
	games int // game logs per player in the current season; 0 means 20
}

func (s stubStats) PlayerGameLog(ctx context.Context, playerID int, season string) ([]domain.GameLog, error) {
	if s.down {
		return nil, fmt.Errorf("statsapi: %w", domain.ErrUpstreamUnavailable)
	}
	if season != "2024-25" {
		return nil, nil
	}
	games := s.games
	if games == 0 {
		games = 20
	}
	start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	var logs []domain.GameLog
	for i := 0; i < games; i++ {
		logs = append(logs, domain.GameLog{
			PlayerID: playerID,
			GameID:   fmt.Sprintf("%d-%d", playerID, i),
			GameDate: start.AddDate(0, 0, i),
			Matchup:  "BOS vs. LAL",
			MIN:      30 + float64(i%4),
			FGM:      5,
			FGA:      10,
			FTM:      2,
			FTA:      2,
			FG3M:     1,
			FG3A:     3,
			REB:      6,
			AST:      4,
			PTS:      18 + float64(i%4)*2,
		})
	}
	return logs, nil
}

func (s stubStats) CommonTeamRoster(ctx context.Context, teamID int, season string) ([]domain.RosterEntry, error) {
	if s.down {
		return nil, fmt.Errorf("statsapi: %w", domain.ErrUpstreamUnavailable)
	}
	return []domain.RosterEntry{{PlayerID: teamID + 1, PlayerName: fmt.Sprintf("Player %d", teamID+1), TeamID: teamID}}, nil
}

func (s stubStats) CommonAllPlayers(ctx context.Context, season string) ([]domain.Player, error) {
	return []domain.Player{{ID: 1628369, FullName: "Jayson Tatum", IsActive: true}}, nil
}

func newTestApp(t *testing.T, stats service.StatsSource) *fiber.App {
	t.Helper()
	repo := postgres.NewMemoryRepository()
	metrics := service.NewMetrics()
	data := service.NewPlayerDataService(stats, repo, service.PlayerDataOptions{
		CurrentSeason: "2024-25", PreviousSeason: "2023-24", CacheSize: 16, CacheTTL: time.Minute,
	}, logger.Discard(), metrics)
	preds := service.NewPredictionService(data, repo, service.PredictionOptions{Workers: 2, SimIterations: 500}, logger.Discard(), metrics)
	t.Cleanup(preds.WaitBackground)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(app, NewHandler(data, preds, repo, logger.Discard()), metrics)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthAndTeams(t *testing.T) {
	app := newTestApp(t, stubStats{})

	code, body := do(t, app, nethttp.MethodGet, "/health", "")
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, "ok", body["database"])

	code, body = do(t, app, nethttp.MethodGet, "/api/v1/teams", "")
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, float64(30), body["count"])
}

func TestRoster(t *testing.T) {
	app := newTestApp(t, stubStats{})

	code, body := do(t, app, nethttp.MethodGet, "/api/v1/teams/bos/roster", "")
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	code, body = do(t, app, nethttp.MethodGet, "/api/v1/teams/XYZ/roster", "")
	assert.Equal(t, nethttp.StatusNotFound, code)
	assert.Equal(t, true, body["error"])
}

func TestSearchPlayer(t *testing.T) {
	app := newTestApp(t, stubStats{})

	code, body := do(t, app, nethttp.MethodGet, "/api/v1/players/search?name=jayson%20tatum", "")
	require.Equal(t, nethttp.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(100), data["score"])

	code, _ = do(t, app, nethttp.MethodGet, "/api/v1/players/search", "")
	assert.Equal(t, nethttp.StatusBadRequest, code)
}

func TestGameLogs(t *testing.T) {
	app := newTestApp(t, stubStats{})

	code, body := do(t, app, nethttp.MethodGet, "/api/v1/players/1628369/gamelogs", "")
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, float64(20), body["count"])

	code, _ = do(t, app, nethttp.MethodGet, "/api/v1/players/abc/gamelogs", "")
	assert.Equal(t, nethttp.StatusBadRequest, code)
}

func TestGameLogsInsufficientData(t *testing.T) {
	app := newTestApp(t, stubStats{games: 3})

	code, body := do(t, app, nethttp.MethodGet, "/api/v1/players/1628369/gamelogs", "")
	assert.Equal(t, nethttp.StatusUnprocessableEntity, code)
	assert.Equal(t, true, body["error"])
	assert.Contains(t, body["message"], "insufficient data")
}

func TestPredict(t *testing.T) {
	app := newTestApp(t, stubStats{})

	code, body := do(t, app, nethttp.MethodPost, "/api/v1/predict",
		`{"home_team":"BOS","away_team":"LAL","model":"Linear Regression","stat":"Points"}`)
	require.Equal(t, nethttp.StatusOK, code, body)

	data := body["data"].(map[string]interface{})
	home := data["home"].(map[string]interface{})
	assert.Equal(t, "BOS", home["team"])
	assert.Len(t, home["players"], 1)
	assert.Greater(t, home["total"].(float64), 0.0)

	req := data["request"].(map[string]interface{})
	assert.Equal(t, "linear", req["model"])
	assert.Equal(t, "PTS", req["stat"])
}

func TestPredictErrors(t *testing.T) {
	app := newTestApp(t, stubStats{})

	code, body := do(t, app, nethttp.MethodPost, "/api/v1/predict", `{"home_team":"BOS","away_team":"BOS"}`)
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, true, body["error"])

	code, _ = do(t, app, nethttp.MethodPost, "/api/v1/predict", `{"home_team":"BOS","away_team":"LAL","stat":"steals"}`)
	assert.Equal(t, nethttp.StatusBadRequest, code)

	code, _ = do(t, app, nethttp.MethodPost, "/api/v1/predict", `not json`)
	assert.Equal(t, nethttp.StatusBadRequest, code)

	down := newTestApp(t, stubStats{down: true})
	code, body = do(t, down, nethttp.MethodPost, "/api/v1/predict", `{"home_team":"BOS","away_team":"LAL"}`)
	assert.Equal(t, nethttp.StatusBadGateway, code)
	assert.Equal(t, "NBA stats service unavailable", body["message"])
}

func TestSimulateThreesAndHistory(t *testing.T) {
	app := newTestApp(t, stubStats{})

	code, body := do(t, app, nethttp.MethodPost, "/api/v1/simulate/threes",
		`{"home_team":"BOS","away_team":"LAL","iterations":1000,"seed":3}`)
	require.Equal(t, nethttp.StatusOK, code, body)
	home := body["data"].(map[string]interface{})["home"].(map[string]interface{})
	assert.Equal(t, float64(1000), home["iterations"])

	code, _ = do(t, app, nethttp.MethodPost, "/api/v1/simulate/threes", `{"home_team":"BOS","away_team":"LAL","iterations":-1}`)
	assert.Equal(t, nethttp.StatusBadRequest, code)

	code, body = do(t, app, nethttp.MethodGet, "/api/v1/predictions?limit=5", "")
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, float64(0), body["count"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, stubStats{})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "go_goroutines")
}
