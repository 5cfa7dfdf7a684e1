package domain

// Player is an entry of the league-wide player index
type Player struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// RosterEntry is a player listed on a team's current roster
type RosterEntry struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamID     int    `json:"team_id"`
	Position   string `json:"position,omitempty"`
}

// PlayerMatch is the outcome of resolving a free-text player name
type PlayerMatch struct {
	Player  Player `json:"player"`
	Score   int    `json:"score"`
	Warning string `json:"warning,omitempty"`
}
