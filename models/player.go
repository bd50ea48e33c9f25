package models

import "time"

// Player is a league roster entry. A player belongs to exactly one league;
// the same person playing two seasons is two Player rows.
type Player struct {
	ID        int       `json:"id"`
	LeagueID  int       `json:"league_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
