package models

import "time"

const (
	// RegularSeasonWeeks is the number of regular season weeks in a league.
	RegularSeasonWeeks = 10
	// ChampionshipWeeks follow the regular season (weeks 11 and 12).
	ChampionshipWeeks = 2
	// BaselineWeeks are played without a handicap until the baseline is set.
	BaselineWeeks = 3
)

type League struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Season    string    `json:"season"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
