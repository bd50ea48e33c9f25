package models

import "time"

const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// User is an account that can sign in. Admins manage leagues and teams;
// players submit scorecards.
type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
