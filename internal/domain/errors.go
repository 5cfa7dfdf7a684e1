package domain

import "errors"

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrInvalidStat         = errors.New("invalid stat")
	ErrInvalidModel        = errors.New("invalid model type")
	ErrSameTeam            = errors.New("home and away team must differ")
	ErrUpstreamUnavailable = errors.New("stats upstream unavailable")
)
