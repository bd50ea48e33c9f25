package models

// PlayerStanding is one leaderboard row for a league season.
type PlayerStanding struct {
	PlayerID       int     `json:"player_id"`
	PlayerName     string  `json:"player_name"`
	RoundsPlayed   int     `json:"rounds_played"`
	GrossTotal     int     `json:"gross_total"`
	WeightedTotal  int     `json:"weighted_total"`
	AvgWeighted    float64 `json:"avg_weighted"`
	CurrentApplied int     `json:"current_applied"`
}

// TeamStanding accumulates best-ball match points across a season.
type TeamStanding struct {
	TeamID        int    `json:"team_id"`
	TeamName      string `json:"team_name"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Ties          int    `json:"ties"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
}

// WeekLeaderboard is the per-week view: every player's round with the
// weighted score applied.
type WeekLeaderboard struct {
	WeekNumber     int             `json:"week_number"`
	IsChampionship bool            `json:"is_championship"`
	Complete       bool            `json:"complete"`
	Rows           []WeekLeaderRow `json:"rows"`
}

type WeekLeaderRow struct {
	PlayerID      int    `json:"player_id"`
	PlayerName    string `json:"player_name"`
	Total         *int   `json:"total,omitempty"`
	Applied       *int   `json:"applied,omitempty"`
	WeightedScore *int   `json:"weighted_score,omitempty"`
}
