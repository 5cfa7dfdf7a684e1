package domain

import (
	"strings"
	"time"
)

// GameLog is a single box-score line for a player
type GameLog struct {
	SeasonID  string    `json:"season_id"`
	PlayerID  int       `json:"player_id"`
	GameID    string    `json:"game_id"`
	GameDate  time.Time `json:"game_date"`
	Matchup   string    `json:"matchup"`
	WL        string    `json:"wl"`
	MIN       float64   `json:"min"`
	FGM       float64   `json:"fgm"`
	FGA       float64   `json:"fga"`
	FGPct     float64   `json:"fg_pct"`
	FG3M      float64   `json:"fg3m"`
	FG3A      float64   `json:"fg3a"`
	FG3Pct    float64   `json:"fg3_pct"`
	FTM       float64   `json:"ftm"`
	FTA       float64   `json:"fta"`
	FTPct     float64   `json:"ft_pct"`
	OREB      float64   `json:"oreb"`
	DREB      float64   `json:"dreb"`
	REB       float64   `json:"reb"`
	AST       float64   `json:"ast"`
	STL       float64   `json:"stl"`
	BLK       float64   `json:"blk"`
	TOV       float64   `json:"tov"`
	PF        float64   `json:"pf"`
	PTS       float64   `json:"pts"`
	PlusMinus float64   `json:"plus_minus"`
}

// IsAway reports whether the game was played on the road ("BOS @ LAL")
func (g GameLog) IsAway() bool {
	return strings.Contains(g.Matchup, "@")
}

// Opponent returns the opposing team's abbreviation from the matchup
func (g GameLog) Opponent() string {
	fields := strings.Fields(g.Matchup)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Value returns the box-score value for the given stat
func (g GameLog) Value(s Stat) float64 {
	switch s {
	case StatAssists:
		return g.AST
	case StatRebounds:
		return g.REB
	case StatThrees:
		return g.FG3M
	default:
		return g.PTS
	}
}
