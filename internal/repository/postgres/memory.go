package postgres

import (
	"context"
	"sort"
	"sync"

	"github.com/boxscore/backend/internal/domain"
)

// MemoryRepository implements domain.DataRepository in process memory.
// It backs the server when no database is configured.
type MemoryRepository struct {
	mu          sync.RWMutex
	games       map[int]map[string]domain.GameLog
	predictions []domain.PredictionSummary
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{games: make(map[int]map[string]domain.GameLog)}
}

func (r *MemoryRepository) SaveGameLogs(ctx context.Context, logs []domain.GameLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range logs {
		byGame, ok := r.games[g.PlayerID]
		if !ok {
			byGame = make(map[string]domain.GameLog)
			r.games[g.PlayerID] = byGame
		}
		byGame[g.GameID] = g
	}
	return nil
}

func (r *MemoryRepository) CareerAverageVsOpponent(ctx context.Context, playerID int, opponent string, stat domain.Stat) (*float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum float64
	var n int
	for _, g := range r.games[playerID] {
		if g.Opponent() == opponent {
			sum += g.Value(stat)
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (r *MemoryRepository) SavePrediction(ctx context.Context, p domain.MatchupPrediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predictions = append(r.predictions, domain.PredictionSummary{
		ID:        p.ID,
		HomeTeam:  p.Request.HomeTeam,
		AwayTeam:  p.Request.AwayTeam,
		Model:     p.Request.Model,
		Stat:      p.Request.Stat,
		HomeTotal: p.Home.Total,
		AwayTotal: p.Away.Total,
		CreatedAt: p.CreatedAt,
	})
	return nil
}

func (r *MemoryRepository) ListPredictions(ctx context.Context, limit int) ([]domain.PredictionSummary, error) {
	r.mu.RLock()
	out := make([]domain.PredictionSummary, len(r.predictions))
	copy(out, r.predictions)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Health always returns nil in memory mode
func (r *MemoryRepository) Health(ctx context.Context) error {
	return nil
}
