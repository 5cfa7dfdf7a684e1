package domain

import (
	"fmt"
	"strings"
	"time"
)

// Stat is a box-score category that can be predicted
type Stat string

const (
	StatPoints   Stat = "PTS"
	StatAssists  Stat = "AST"
	StatRebounds Stat = "REB"
	StatThrees   Stat = "FG3M"
)

// ParseStat accepts a column name or a page label ("Points")
func ParseStat(s string) (Stat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pts", "points":
		return StatPoints, nil
	case "ast", "assists":
		return StatAssists, nil
	case "reb", "rebounds":
		return StatRebounds, nil
	case "fg3m", "threes", "three-pointers":
		return StatThrees, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStat, s)
}

// Unit is the noun used when printing a predicted value
func (s Stat) Unit() string {
	switch s {
	case StatAssists:
		return "assists"
	case StatRebounds:
		return "rebounds"
	case StatThrees:
		return "threes"
	default:
		return "points"
	}
}

// ModelType selects the regression family
type ModelType string

const (
	ModelXGBoost    ModelType = "xgboost"
	ModelLinear     ModelType = "linear"
	ModelPolynomial ModelType = "polynomial"
)

// ParseModelType accepts identifiers as well as display labels
func ParseModelType(s string) (ModelType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xgboost", "xgb", "gbm":
		return ModelXGBoost, nil
	case "linear", "linear regression":
		return ModelLinear, nil
	case "polynomial", "poly", "polynomial regression":
		return ModelPolynomial, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidModel, s)
}

// Label is the human-readable model name
func (m ModelType) Label() string {
	switch m {
	case ModelLinear:
		return "Linear Regression"
	case ModelPolynomial:
		return "Polynomial Regression"
	default:
		return "XGBoost"
	}
}

// PredictionRequest represents a matchup to predict
type PredictionRequest struct {
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Model    ModelType `json:"model,omitempty"`
	Stat     Stat      `json:"stat,omitempty"`
}

// Validate normalizes the request in place and checks it against the team table.
// An empty model means XGBoost and an empty stat means points.
func (r *PredictionRequest) Validate() error {
	home, err := FindTeamByAbbreviation(r.HomeTeam)
	if err != nil {
		return fmt.Errorf("home team %q: %w", r.HomeTeam, err)
	}
	away, err := FindTeamByAbbreviation(r.AwayTeam)
	if err != nil {
		return fmt.Errorf("away team %q: %w", r.AwayTeam, err)
	}
	if home.ID == away.ID {
		return ErrSameTeam
	}
	model, stat := ModelXGBoost, StatPoints
	if r.Model != "" {
		if model, err = ParseModelType(string(r.Model)); err != nil {
			return err
		}
	}
	if r.Stat != "" {
		if stat, err = ParseStat(string(r.Stat)); err != nil {
			return err
		}
	}

	r.HomeTeam = home.Abbreviation
	r.AwayTeam = away.Abbreviation
	r.Model = model
	r.Stat = stat
	return nil
}

// PlayerPrediction is a single player's projected value
type PlayerPrediction struct {
	PlayerID            int      `json:"player_id"`
	PlayerName          string   `json:"player_name"`
	Predicted           float64  `json:"predicted"`
	TestMSE             float64  `json:"test_mse"`
	TestRMSE            float64  `json:"test_rmse"`
	CareerAvgVsOpponent *float64 `json:"career_avg_vs_opponent"`
	GamesUsed           int      `json:"games_used"`
}

// TeamPrediction aggregates the players of one side of a matchup
type TeamPrediction struct {
	Team     string             `json:"team"`
	Opponent string             `json:"opponent"`
	Players  []PlayerPrediction `json:"players"`
	Total    float64            `json:"total"`
	Warnings []string           `json:"warnings,omitempty"`
}

// MatchupPrediction is the full result of a prediction run
type MatchupPrediction struct {
	ID        string            `json:"id"`
	Request   PredictionRequest `json:"request"`
	Home      TeamPrediction    `json:"home"`
	Away      TeamPrediction    `json:"away"`
	CreatedAt time.Time         `json:"created_at"`
}

// PredictionSummary is a stored prediction as listed in history
type PredictionSummary struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Model     ModelType `json:"model"`
	Stat      Stat      `json:"stat"`
	HomeTotal float64   `json:"home_total"`
	AwayTotal float64   `json:"away_total"`
	CreatedAt time.Time `json:"created_at"`
}

// SimulationRequest describes a three-point Monte Carlo run
type SimulationRequest struct {
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	Iterations int    `json:"iterations,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
}

// PlayerThrees holds one player's simulated three-point output
type PlayerThrees struct {
	PlayerID     int     `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	MeanAttempts float64 `json:"mean_attempts"`
	Percentage   float64 `json:"percentage"`
	MeanMade     float64 `json:"mean_made"`
}

// ThreePointSimulation summarises the simulated distribution of team threes
type ThreePointSimulation struct {
	Team       string         `json:"team"`
	Opponent   string         `json:"opponent"`
	Iterations int            `json:"iterations"`
	Players    []PlayerThrees `json:"players"`
	TeamMean   float64        `json:"team_mean"`
	TeamP10    float64        `json:"team_p10"`
	TeamP90    float64        `json:"team_p90"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// MatchupSimulation pairs the simulations of both sides
type MatchupSimulation struct {
	Home ThreePointSimulation `json:"home"`
	Away ThreePointSimulation `json:"away"`
}
