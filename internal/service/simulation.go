package service

import (
	"context"
	"sort"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/boxscore/backend/internal/domain"
	"github.com/boxscore/backend/pkg/utils"
)

const defaultSimSeed = 42

type shooter struct {
	entry    domain.RosterEntry
	attempts float64
	pct      float64
}

// SimulateThrees runs a Monte Carlo of three-pointers made for both teams of a matchup.
// Each player's attempts are Poisson around the mean FG3A and makes are Binomial at the player's 3P%.
func (s *PredictionService) SimulateThrees(ctx context.Context, req domain.SimulationRequest) (domain.MatchupSimulation, error) {
	pr := domain.PredictionRequest{HomeTeam: req.HomeTeam, AwayTeam: req.AwayTeam}
	if err := pr.Validate(); err != nil {
		return domain.MatchupSimulation{}, err
	}
	iterations := req.Iterations
	if iterations <= 0 {
		iterations = s.simRuns
	}
	seed := req.Seed
	if seed == 0 {
		seed = defaultSimSeed
	}

	home, err := s.simulateTeam(ctx, pr.HomeTeam, pr.AwayTeam, iterations, seed)
	if err != nil {
		return domain.MatchupSimulation{}, err
	}
	away, err := s.simulateTeam(ctx, pr.AwayTeam, pr.HomeTeam, iterations, seed+1)
	if err != nil {
		return domain.MatchupSimulation{}, err
	}
	return domain.MatchupSimulation{Home: home, Away: away}, nil
}

func (s *PredictionService) simulateTeam(ctx context.Context, team, opponent string, iterations int, seed uint64) (domain.ThreePointSimulation, error) {
	roster, err := s.data.Roster(ctx, team)
	if err != nil {
		return domain.ThreePointSimulation{}, err
	}

	shooters := make([]*shooter, len(roster))
	warnings := make([]string, len(roster))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, entry := range roster {
		i, entry := i, entry
		g.Go(func() error {
			logs, err := s.data.GameLogs(gctx, entry.PlayerID)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				warnings[i] = s.skipReason(entry.PlayerName, err)
				return nil
			}
			shooters[i] = shooterFromLogs(entry, logs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ThreePointSimulation{}, err
	}

	out := domain.ThreePointSimulation{Team: team, Opponent: opponent, Iterations: iterations, Players: []domain.PlayerThrees{}}
	var active []*shooter
	for i := range roster {
		if warnings[i] != "" {
			out.Warnings = append(out.Warnings, warnings[i])
		}
		if shooters[i] != nil {
			active = append(active, shooters[i])
		}
	}

	totals, made := simulate(active, iterations, seed)
	for k, sh := range active {
		out.Players = append(out.Players, domain.PlayerThrees{
			PlayerID:     sh.entry.PlayerID,
			PlayerName:   sh.entry.PlayerName,
			MeanAttempts: sh.attempts,
			Percentage:   sh.pct,
			MeanMade:     made[k] / float64(iterations),
		})
	}

	if len(totals) > 0 {
		sort.Float64s(totals)
		out.TeamMean = stat.Mean(totals, nil)
		out.TeamP10 = stat.Quantile(0.1, stat.Empirical, totals, nil)
		out.TeamP90 = stat.Quantile(0.9, stat.Empirical, totals, nil)
	}
	return out, nil
}

func shooterFromLogs(entry domain.RosterEntry, logs []domain.GameLog) *shooter {
	var made, attempts float64
	for _, g := range logs {
		made += g.FG3M
		attempts += g.FG3A
	}
	sh := &shooter{entry: entry}
	if len(logs) > 0 {
		sh.attempts = attempts / float64(len(logs))
	}
	if attempts > 0 {
		sh.pct = utils.Clamp(made/attempts, 0, 1)
	}
	return sh
}

// simulate returns the team total of each iteration and the summed makes of each shooter
func simulate(shooters []*shooter, iterations int, seed uint64) ([]float64, []float64) {
	if iterations <= 0 {
		return nil, nil
	}
	src := rand.NewSource(seed)
	totals := make([]float64, iterations)
	made := make([]float64, len(shooters))

	for k, sh := range shooters {
		if sh.attempts <= 0 || sh.pct <= 0 {
			continue
		}
		attempts := distuv.Poisson{Lambda: sh.attempts, Src: src}
		for it := 0; it < iterations; it++ {
			n := attempts.Rand()
			if n == 0 {
				continue
			}
			m := distuv.Binomial{N: n, P: sh.pct, Src: src}.Rand()
			totals[it] += m
			made[k] += m
		}
	}
	return totals, made
}
