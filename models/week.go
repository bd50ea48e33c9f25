package models

import "time"

// Week is one competition period within a league, identified by
// (league_id, week_number, is_championship). Championship rounds are a
// separate dimension rather than simply higher week numbers.
//
// Legacy data may contain duplicate rows for the same week number; all
// aggregate reads therefore go by week number, never by a single week id.
type Week struct {
	ID             int       `json:"id"`
	LeagueID       int       `json:"league_id"`
	WeekNumber     int       `json:"week_number"`
	IsChampionship bool      `json:"is_championship"`
	CreatedAt      time.Time `json:"created_at"`
}
