package models

import "time"

// HolesPerRound is fixed; the league plays full 18-hole rounds.
const HolesPerRound = 18

// Score is one player's round for one week. A nil hole means "not
// recorded". A stroke count of zero is never a real score and is
// normalized to nil at the ingress boundary.
type Score struct {
	ID            int                 `json:"id"`
	PlayerID      int                 `json:"player_id"`
	WeekID        int                 `json:"week_id"`
	Holes         [HolesPerRound]*int `json:"holes"`
	Front9        *int                `json:"front9,omitempty"`
	Back9         *int                `json:"back9,omitempty"`
	Total         *int                `json:"total,omitempty"`
	WeightedScore *int                `json:"weighted_score,omitempty"`
	CardImageKey  *string             `json:"card_image_key,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// WeekScore is a score joined with its week's coordinates, used by the
// aggregate reads that reconcile duplicate week rows by week number.
type WeekScore struct {
	Score
	WeekNumber     int  `json:"week_number"`
	IsChampionship bool `json:"is_championship"`
}

// HasHoleData reports whether at least one hole was recorded.
func (s *Score) HasHoleData() bool {
	for _, h := range s.Holes {
		if h != nil {
			return true
		}
	}
	return false
}
