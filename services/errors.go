// Package services implements the league's business rules on top of the
// repositories: account handling, roster and team management, scorecard
// ingestion, the handicap recompute cascade and match scoring.
package services

import "errors"

var (
	ErrLeagueNotFound   = errors.New("league not found")
	ErrLeagueNameTaken  = errors.New("league name already in use for this season")
	ErrLeagueInactive   = errors.New("league is not active")
	ErrSeasonRequired   = errors.New("league season is required")
	ErrNameRequired     = errors.New("name is required")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrWeekNotFound     = errors.New("week not found")
	ErrScoreNotFound    = errors.New("score not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrMatchNotFound    = errors.New("match not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email address is already in use")
	ErrEmailInvalid     = errors.New("email address is invalid")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPlayerNotInLeague is returned when a submission references a
	// player and a week from different leagues. Unknown players and weeks
	// fail loudly rather than being absorbed.
	ErrPlayerNotInLeague = errors.New("player does not belong to the week's league")

	ErrScorecardInvalid = errors.New("scorecard must carry 18 holes with non-negative strokes")
	ErrScorecardEmpty   = errors.New("scorecard carries neither hole data nor a total")
	ErrCardImageInvalid = errors.New("card image must be a jpeg or png")

	ErrTeamNameTaken       = errors.New("team name already in use in this league")
	ErrTeamSamePlayer      = errors.New("a team needs two different players")
	ErrTeamLeagueMismatch  = errors.New("both players must belong to the team's league")
	ErrTeamPlayerLimit     = errors.New("a player may belong to at most two teams")
	ErrMatchTeamsInvalid   = errors.New("match teams must be two different teams of the league")
	ErrNotEnoughTeams      = errors.New("league needs at least two teams to generate a schedule")
	ErrWeekNumberInvalid   = errors.New("week number is out of range for the season")
	ErrRoleInvalid         = errors.New("unknown role")
	ErrForbiddenOperation  = errors.New("operation not permitted for this account")
	ErrChampionshipTooSoon = errors.New("championship matches cannot be created before the regular season ends")
)
