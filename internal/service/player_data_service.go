package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/boxscore/backend/internal/domain"
	"github.com/boxscore/backend/internal/namematch"
)

// PlayerDataOptions configures season selection, matching and caching
type PlayerDataOptions struct {
	CurrentSeason  string
	PreviousSeason string
	MinGames       int
	FuzzyThreshold int
	CacheSize      int
	CacheTTL       time.Duration
}

// PlayerDataService fetches rosters, the player index and game logs, caching upstream calls
type PlayerDataService struct {
	stats   StatsSource
	repo    DataRepository
	opts    PlayerDataOptions
	cache   *ttlCache
	group   singleflight.Group
	logger  *slog.Logger
	metrics *Metrics
}

// NewPlayerDataService creates a new player data service
func NewPlayerDataService(stats StatsSource, repo DataRepository, opts PlayerDataOptions, logger *slog.Logger, metrics *Metrics) *PlayerDataService {
	if opts.MinGames <= 0 {
		opts.MinGames = 5
	}
	if opts.FuzzyThreshold <= 0 {
		opts.FuzzyThreshold = 80
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerDataService{
		stats:   stats,
		repo:    repo,
		opts:    opts,
		cache:   newTTLCache(opts.CacheSize, opts.CacheTTL),
		logger:  logger,
		metrics: metrics,
	}
}

// sharedLoadTimeout bounds a load that outlives the caller that started it
const sharedLoadTimeout = 10 * time.Minute

// cached serves key from the cache or loads it once, sharing the call among concurrent callers.
// The load ignores caller cancellation; each caller stops waiting when its own ctx ends.
func (s *PlayerDataService) cached(ctx context.Context, kind, key string, load func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if v, ok := s.cache.Get(key); ok {
		s.metrics.cacheLookup(kind, true)
		return v, nil
	}
	s.metrics.cacheLookup(kind, false)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Players returns the league-wide player index
func (s *PlayerDataService) Players(ctx context.Context) ([]domain.Player, error) {
	v, err := s.cached(ctx, "players", "players:"+s.opts.CurrentSeason, func(ctx context.Context) (interface{}, error) {
		return s.stats.CommonAllPlayers(ctx, s.opts.CurrentSeason)
	})
	if err != nil {
		return nil, fmt.Errorf("player data: failed to load player index: %w", err)
	}
	return v.([]domain.Player), nil
}

// ResolvePlayer matches a free-text name to the closest indexed player.
// Below the fuzzy threshold the best match is still used, with a "did you mean" warning.
func (s *PlayerDataService) ResolvePlayer(ctx context.Context, name string) (domain.PlayerMatch, error) {
	players, err := s.Players(ctx)
	if err != nil {
		return domain.PlayerMatch{}, err
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.FullName
	}

	idx, score := namematch.Best(name, names)
	if idx < 0 || score == 0 {
		return domain.PlayerMatch{}, fmt.Errorf("player %q: %w", name, domain.ErrPlayerNotFound)
	}

	match := domain.PlayerMatch{Player: players[idx], Score: score}
	if score < s.opts.FuzzyThreshold {
		match.Warning = fmt.Sprintf("Player '%s' not found. Did you mean '%s'?", name, players[idx].FullName)
		s.logger.Warn("fuzzy player match below threshold",
			"query", name, "match", players[idx].FullName, "score", score)
	}
	return match, nil
}

// Roster returns a team's current roster
func (s *PlayerDataService) Roster(ctx context.Context, abbr string) ([]domain.RosterEntry, error) {
	team, err := domain.FindTeamByAbbreviation(abbr)
	if err != nil {
		return nil, fmt.Errorf("team %q: %w", abbr, err)
	}

	v, err := s.cached(ctx, "roster", "roster:"+team.Abbreviation+":"+s.opts.CurrentSeason, func(ctx context.Context) (interface{}, error) {
		return s.stats.CommonTeamRoster(ctx, team.ID, s.opts.CurrentSeason)
	})
	if err != nil {
		return nil, fmt.Errorf("player data: failed to fetch roster for %s: %w", team.Abbreviation, err)
	}
	return v.([]domain.RosterEntry), nil
}

// GameLogs returns the current and previous season logs of a player combined.
// Fewer than MinGames games yields domain.ErrInsufficientData.
func (s *PlayerDataService) GameLogs(ctx context.Context, playerID int) ([]domain.GameLog, error) {
	v, err := s.cached(ctx, "gamelogs", "logs:"+strconv.Itoa(playerID), func(ctx context.Context) (interface{}, error) {
		return s.fetchGameLogs(ctx, playerID)
	})
	if err != nil {
		return nil, err
	}

	logs := v.([]domain.GameLog)
	if len(logs) < s.opts.MinGames {
		return logs, fmt.Errorf("player %d: only %d games found: %w", playerID, len(logs), domain.ErrInsufficientData)
	}
	return logs, nil
}

func (s *PlayerDataService) fetchGameLogs(ctx context.Context, playerID int) ([]domain.GameLog, error) {
	var combined []domain.GameLog
	for _, season := range []string{s.opts.CurrentSeason, s.opts.PreviousSeason} {
		if season == "" {
			continue
		}
		logs, err := s.stats.PlayerGameLog(ctx, playerID, season)
		if err != nil {
			return nil, fmt.Errorf("player data: failed to fetch %s logs for player %d: %w", season, playerID, err)
		}
		combined = append(combined, logs...)
	}

	if s.repo != nil && len(combined) > 0 {
		if err := s.repo.SaveGameLogs(ctx, combined); err != nil {
			s.logger.Error("failed to persist game logs", "player_id", playerID, "error", err)
		}
	}
	return combined, nil
}
