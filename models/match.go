package models

import "time"

// Match is one scheduled best-ball pairing of two teams for a week.
// Team2ID is nil for a bye. WinnerTeamID is nil while the match is
// unscored or tied.
type Match struct {
	ID             int       `json:"id"`
	LeagueID       int       `json:"league_id"`
	WeekNumber     int       `json:"week_number"`
	IsChampionship bool      `json:"is_championship"`
	Team1ID        int       `json:"team1_id"`
	Team2ID        *int      `json:"team2_id,omitempty"`
	Team1Points    int       `json:"team1_points"`
	Team2Points    int       `json:"team2_points"`
	WinnerTeamID   *int      `json:"winner_team_id,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
