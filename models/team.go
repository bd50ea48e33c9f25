package models

import "time"

// Team pairs two league players for best-ball match play. Teams are
// created by an administrator; a player may appear on at most two teams.
type Team struct {
	ID        int       `json:"id"`
	LeagueID  int       `json:"league_id"`
	Name      string    `json:"name"`
	Player1ID int       `json:"player1_id"`
	Player2ID int       `json:"player2_id"`
	CreatedAt time.Time `json:"created_at"`
}
