package statsapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/boxscore/backend/internal/domain"
)

const leagueID = "00"

// PlayerGameLog returns a player's regular season box scores, newest first as served
func (c *Client) PlayerGameLog(ctx context.Context, playerID int, season string) ([]domain.GameLog, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")
	params.Set("LeagueID", leagueID)

	env, err := c.get(ctx, "playergamelog", params)
	if err != nil {
		return nil, err
	}
	rs, err := env.table("PlayerGameLog")
	if err != nil {
		return nil, err
	}

	logs := make([]domain.GameLog, 0, len(rs.RowSet))
	for _, r := range rs.rows() {
		date, err := ParseGameDate(r.String("GAME_DATE"))
		if err != nil {
			return nil, err
		}
		logs = append(logs, domain.GameLog{
			SeasonID:  r.String("SEASON_ID"),
			PlayerID:  r.Int("PLAYER_ID"),
			GameID:    r.String("GAME_ID"),
			GameDate:  date,
			Matchup:   r.String("MATCHUP"),
			WL:        r.String("WL"),
			MIN:       r.Float("MIN"),
			FGM:       r.Float("FGM"),
			FGA:       r.Float("FGA"),
			FGPct:     r.Float("FG_PCT"),
			FG3M:      r.Float("FG3M"),
			FG3A:      r.Float("FG3A"),
			FG3Pct:    r.Float("FG3_PCT"),
			FTM:       r.Float("FTM"),
			FTA:       r.Float("FTA"),
			FTPct:     r.Float("FT_PCT"),
			OREB:      r.Float("OREB"),
			DREB:      r.Float("DREB"),
			REB:       r.Float("REB"),
			AST:       r.Float("AST"),
			STL:       r.Float("STL"),
			BLK:       r.Float("BLK"),
			TOV:       r.Float("TOV"),
			PF:        r.Float("PF"),
			PTS:       r.Float("PTS"),
			PlusMinus: r.Float("PLUS_MINUS"),
		})
	}
	return logs, nil
}

// CommonTeamRoster returns the players listed for a team in a season
func (c *Client) CommonTeamRoster(ctx context.Context, teamID int, season string) ([]domain.RosterEntry, error) {
	params := url.Values{}
	params.Set("TeamID", strconv.Itoa(teamID))
	params.Set("Season", season)
	params.Set("LeagueID", leagueID)

	env, err := c.get(ctx, "commonteamroster", params)
	if err != nil {
		return nil, err
	}
	rs, err := env.table("CommonTeamRoster")
	if err != nil {
		return nil, err
	}

	roster := make([]domain.RosterEntry, 0, len(rs.RowSet))
	for _, r := range rs.rows() {
		roster = append(roster, domain.RosterEntry{
			PlayerID:   r.Int("PLAYER_ID"),
			PlayerName: r.String("PLAYER"),
			TeamID:     teamID,
			Position:   r.String("POSITION"),
		})
	}
	return roster, nil
}

// CommonAllPlayers returns the league-wide player index
func (c *Client) CommonAllPlayers(ctx context.Context, season string) ([]domain.Player, error) {
	params := url.Values{}
	params.Set("LeagueID", leagueID)
	params.Set("Season", season)
	params.Set("IsOnlyCurrentSeason", "0")

	env, err := c.get(ctx, "commonallplayers", params)
	if err != nil {
		return nil, err
	}
	rs, err := env.table("CommonAllPlayers")
	if err != nil {
		return nil, err
	}

	players := make([]domain.Player, 0, len(rs.RowSet))
	for _, r := range rs.rows() {
		name := r.String("DISPLAY_FIRST_LAST")
		if name == "" {
			continue
		}
		players = append(players, domain.Player{
			ID:       r.Int("PERSON_ID"),
			FullName: name,
			IsActive: r.Int("ROSTERSTATUS") == 1,
		})
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("statsapi: empty player index for %s", season)
	}
	return players, nil
}
