package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/boxscore/backend/internal/domain"
	"github.com/boxscore/backend/internal/features"
	"github.com/boxscore/backend/internal/model"
	"github.com/boxscore/backend/pkg/utils"
)

// PredictionService trains per-player models and aggregates team totals
type PredictionService struct {
	data    *PlayerDataService
	repo    DataRepository
	workers int
	simRuns int
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time

	wgBg sync.WaitGroup // tracks background saves for graceful shutdown
}

// PredictionOptions configures fan-out and simulation defaults
type PredictionOptions struct {
	Workers       int
	SimIterations int
}

// NewPredictionService creates a new prediction service
func NewPredictionService(data *PlayerDataService, repo DataRepository, opts PredictionOptions, logger *slog.Logger, metrics *Metrics) *PredictionService {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.SimIterations <= 0 {
		opts.SimIterations = 10000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionService{
		data:    data,
		repo:    repo,
		workers: opts.Workers,
		simRuns: opts.SimIterations,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// WaitBackground blocks until all background save goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *PredictionService) WaitBackground() {
	s.wgBg.Wait()
}

// PredictMatchup predicts both sides of a game: home against away, then away against home
func (s *PredictionService) PredictMatchup(ctx context.Context, req domain.PredictionRequest) (domain.MatchupPrediction, error) {
	if err := req.Validate(); err != nil {
		return domain.MatchupPrediction{}, err
	}
	start := s.now()

	home, err := s.predictTeam(ctx, req.HomeTeam, req.AwayTeam, req.Model, req.Stat)
	if err != nil {
		return domain.MatchupPrediction{}, err
	}
	away, err := s.predictTeam(ctx, req.AwayTeam, req.HomeTeam, req.Model, req.Stat)
	if err != nil {
		return domain.MatchupPrediction{}, err
	}

	result := domain.MatchupPrediction{
		ID:        uuid.NewString(),
		Request:   req,
		Home:      home,
		Away:      away,
		CreatedAt: s.now().UTC(),
	}
	s.metrics.observePrediction(string(req.Model), string(req.Stat), s.now().Sub(start))

	// Persist asynchronously (tracked for graceful shutdown)
	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.SavePrediction(bgCtx, result); err != nil {
			s.logger.Error("failed to save prediction", "id", result.ID, "error", err)
		}
	}()

	return result, nil
}

// History lists stored predictions, newest first
func (s *PredictionService) History(ctx context.Context, limit int) ([]domain.PredictionSummary, error) {
	return s.repo.ListPredictions(ctx, limit)
}

func (s *PredictionService) predictTeam(ctx context.Context, team, opponent string, mt domain.ModelType, stat domain.Stat) (domain.TeamPrediction, error) {
	roster, err := s.data.Roster(ctx, team)
	if err != nil {
		return domain.TeamPrediction{}, err
	}
	log := s.logger.With("team", team, "opponent", opponent, "model", string(mt), "stat", string(stat))
	log.Info("analyzing roster", "players", len(roster))

	preds := make([]*domain.PlayerPrediction, len(roster))
	warnings := make([]string, len(roster))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, entry := range roster {
		i, entry := i, entry
		g.Go(func() error {
			p, err := s.predictPlayer(gctx, entry, opponent, mt, stat)
			if err == nil {
				preds[i] = &p
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			warnings[i] = s.skipReason(entry.PlayerName, err)
			log.Warn("player skipped", "player", entry.PlayerName, "error", err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.TeamPrediction{}, err
	}

	out := domain.TeamPrediction{Team: team, Opponent: opponent, Players: []domain.PlayerPrediction{}}
	for i := range roster {
		if preds[i] != nil {
			out.Players = append(out.Players, *preds[i])
			out.Total += preds[i].Predicted
		}
		if warnings[i] != "" {
			out.Warnings = append(out.Warnings, warnings[i])
		}
	}
	log.Info("team prediction complete", "total", out.Total, "predicted_players", len(out.Players))
	return out, nil
}

func (s *PredictionService) skipReason(name string, err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		s.metrics.playerSkipped("insufficient_data")
		return fmt.Sprintf("Insufficient data for %s", name)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		s.metrics.playerSkipped("upstream")
		return fmt.Sprintf("Failed to fetch data for %s", name)
	default:
		s.metrics.playerSkipped("error")
		return fmt.Sprintf("Error processing %s: %v", name, err)
	}
}

func (s *PredictionService) predictPlayer(ctx context.Context, entry domain.RosterEntry, opponent string, mt domain.ModelType, stat domain.Stat) (domain.PlayerPrediction, error) {
	logs, err := s.data.GameLogs(ctx, entry.PlayerID)
	if err != nil {
		return domain.PlayerPrediction{}, err
	}

	rows := features.Preprocess(logs)
	if len(rows) < 2 {
		return domain.PlayerPrediction{}, fmt.Errorf("%d usable games: %w", len(rows), domain.ErrInsufficientData)
	}

	res, err := model.Train(mt, features.Matrix(rows), features.Target(rows, stat))
	if err != nil {
		return domain.PlayerPrediction{}, err
	}
	predicted, err := res.Model.Predict(features.MeanVector(rows))
	if err != nil {
		return domain.PlayerPrediction{}, err
	}
	predicted = utils.Clamp(predicted, 0, math.Inf(1))

	avg, err := s.repo.CareerAverageVsOpponent(ctx, entry.PlayerID, opponent, stat)
	if err != nil {
		s.logger.Warn("career average unavailable", "player", entry.PlayerName, "error", err)
		avg = nil
	}

	s.logger.Debug("player model trained",
		"player", entry.PlayerName, "test_mse", res.MSE, "test_rmse", res.RMSE, "games", len(rows))

	return domain.PlayerPrediction{
		PlayerID:            entry.PlayerID,
		PlayerName:          entry.PlayerName,
		Predicted:           predicted,
		TestMSE:             res.MSE,
		TestRMSE:            res.RMSE,
		CareerAvgVsOpponent: avg,
		GamesUsed:           len(rows),
	}, nil
}
