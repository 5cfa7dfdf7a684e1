package service

import (
	"context"

	"github.com/boxscore/backend/internal/domain"
)

// DataRepository is re-exported from domain for convenience
type DataRepository = domain.DataRepository

// StatsSource is the upstream box-score provider; *statsapi.Client implements it
type StatsSource interface {
	PlayerGameLog(ctx context.Context, playerID int, season string) ([]domain.GameLog, error)
	CommonTeamRoster(ctx context.Context, teamID int, season string) ([]domain.RosterEntry, error)
	CommonAllPlayers(ctx context.Context, season string) ([]domain.Player, error)
}
