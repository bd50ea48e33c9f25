package models

// Handicap holds the computed handicap state for one player in one week.
//
// RawHandicap is set as soon as the player's total and the week's round
// low are known. AppliedHandicap is set once the progression rules allow
// it: the baseline (weeks 1-4) after week 3 completes league-wide, or the
// progressive average once the prior week completes (week 5+).
type Handicap struct {
	ID              int  `json:"id"`
	PlayerID        int  `json:"player_id"`
	WeekID          int  `json:"week_id"`
	RawHandicap     *int `json:"raw_handicap,omitempty"`
	AppliedHandicap *int `json:"applied_handicap,omitempty"`
	IsBaseline      bool `json:"is_baseline"`
}

// WeekHandicap is a handicap joined with its week's coordinates for
// aggregate reads by week number.
type WeekHandicap struct {
	Handicap
	WeekNumber     int  `json:"week_number"`
	IsChampionship bool `json:"is_championship"`
}
