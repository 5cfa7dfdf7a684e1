package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/boxscore/backend/internal/domain"
)

// PostgresRepository implements domain.DataRepository
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
// Open db with pgx's stdlib driver, e.g. stdlib.OpenDBFromPool.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS game_logs (
	player_id   INTEGER      NOT NULL,
	game_id     TEXT         NOT NULL,
	season_id   TEXT         NOT NULL,
	game_date   DATE         NOT NULL,
	matchup     TEXT         NOT NULL,
	wl          TEXT         NOT NULL DEFAULT '',
	min         DOUBLE PRECISION NOT NULL DEFAULT 0,
	fgm         DOUBLE PRECISION NOT NULL DEFAULT 0,
	fga         DOUBLE PRECISION NOT NULL DEFAULT 0,
	fg3m        DOUBLE PRECISION NOT NULL DEFAULT 0,
	fg3a        DOUBLE PRECISION NOT NULL DEFAULT 0,
	ftm         DOUBLE PRECISION NOT NULL DEFAULT 0,
	fta         DOUBLE PRECISION NOT NULL DEFAULT 0,
	reb         DOUBLE PRECISION NOT NULL DEFAULT 0,
	ast         DOUBLE PRECISION NOT NULL DEFAULT 0,
	tov         DOUBLE PRECISION NOT NULL DEFAULT 0,
	pf          DOUBLE PRECISION NOT NULL DEFAULT 0,
	pts         DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (player_id, game_id)
);
CREATE INDEX IF NOT EXISTS game_logs_player_matchup ON game_logs (player_id, matchup);
CREATE TABLE IF NOT EXISTS prediction_logs (
	id          UUID PRIMARY KEY,
	home_team   TEXT NOT NULL,
	away_team   TEXT NOT NULL,
	model       TEXT NOT NULL,
	stat        TEXT NOT NULL,
	home_total  DOUBLE PRECISION NOT NULL,
	away_total  DOUBLE PRECISION NOT NULL,
	payload     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);`

// Migrate creates the tables if they do not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to migrate: %w", err)
	}
	return nil
}

// SaveGameLogs upserts game logs in a single transaction
func (r *PostgresRepository) SaveGameLogs(ctx context.Context, logs []domain.GameLog) (err error) {
	if len(logs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO game_logs (
			player_id, game_id, season_id, game_date, matchup, wl,
			min, fgm, fga, fg3m, fg3a, ftm, fta, reb, ast, tov, pf, pts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (player_id, game_id) DO UPDATE SET
			min = EXCLUDED.min, fgm = EXCLUDED.fgm, fga = EXCLUDED.fga,
			fg3m = EXCLUDED.fg3m, fg3a = EXCLUDED.fg3a, ftm = EXCLUDED.ftm, fta = EXCLUDED.fta,
			reb = EXCLUDED.reb, ast = EXCLUDED.ast, tov = EXCLUDED.tov, pf = EXCLUDED.pf, pts = EXCLUDED.pts
	`)
	if err != nil {
		return fmt.Errorf("postgres: failed to prepare game log upsert: %w", err)
	}
	defer stmt.Close()

	for _, g := range logs {
		if _, err = stmt.ExecContext(ctx,
			g.PlayerID, g.GameID, g.SeasonID, g.GameDate, g.Matchup, g.WL,
			g.MIN, g.FGM, g.FGA, g.FG3M, g.FG3A, g.FTM, g.FTA, g.REB, g.AST, g.TOV, g.PF, g.PTS,
		); err != nil {
			return fmt.Errorf("postgres: failed to save game log %s: %w", g.GameID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("postgres: failed to commit game logs: %w", err)
	}
	return nil
}

var statColumns = map[domain.Stat]string{
	domain.StatPoints:   "pts",
	domain.StatAssists:  "ast",
	domain.StatRebounds: "reb",
	domain.StatThrees:   "fg3m",
}

// CareerAverageVsOpponent averages a stat over every stored game against the opponent.
// The opponent is the third token of the matchup ("BOS vs. LAL", "BOS @ LAL").
func (r *PostgresRepository) CareerAverageVsOpponent(ctx context.Context, playerID int, opponent string, stat domain.Stat) (*float64, error) {
	column, ok := statColumns[stat]
	if !ok {
		return nil, fmt.Errorf("postgres: %w: %q", domain.ErrInvalidStat, stat)
	}

	query := fmt.Sprintf(`
		SELECT AVG(%s)
		FROM game_logs
		WHERE player_id = $1
		  AND split_part(matchup, ' ', 3) = $2
	`, column)

	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, playerID, opponent).Scan(&avg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to query career average: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// SavePrediction persists a matchup prediction with its full payload
func (r *PostgresRepository) SavePrediction(ctx context.Context, p domain.MatchupPrediction) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode prediction: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO prediction_logs (
			id, home_team, away_team, model, stat, home_total, away_total, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		p.ID, p.Request.HomeTeam, p.Request.AwayTeam, string(p.Request.Model), string(p.Request.Stat),
		p.Home.Total, p.Away.Total, payload, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save prediction log: %w", err)
	}
	return nil
}

// ListPredictions returns the most recent predictions first
func (r *PostgresRepository) ListPredictions(ctx context.Context, limit int) ([]domain.PredictionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, home_team, away_team, model, stat, home_total, away_total, created_at
		FROM prediction_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query predictions: %w", err)
	}
	defer rows.Close()

	results := []domain.PredictionSummary{}
	for rows.Next() {
		var p domain.PredictionSummary
		if err := rows.Scan(
			&p.ID, &p.HomeTeam, &p.AwayTeam, &p.Model, &p.Stat, &p.HomeTotal, &p.AwayTotal, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan prediction row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate predictions: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
