package domain

import "context"

// DataRepository defines the interface for data persistence
type DataRepository interface {
	// SaveGameLogs upserts box-score lines
	SaveGameLogs(ctx context.Context, logs []GameLog) error

	// CareerAverageVsOpponent returns nil when the player has no games against the opponent
	CareerAverageVsOpponent(ctx context.Context, playerID int, opponent string, stat Stat) (*float64, error)

	// SavePrediction persists a matchup prediction
	SavePrediction(ctx context.Context, p MatchupPrediction) error

	// ListPredictions returns the most recent predictions first
	ListPredictions(ctx context.Context, limit int) ([]PredictionSummary, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}
