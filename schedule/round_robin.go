// Package schedule generates the regular season match calendar: a
// round-robin over the league's teams, one set of pairings per week.
package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughTeams = errors.New("not enough teams to schedule matches (minimum 2 required)")
	ErrInvalidWeeks   = errors.New("schedule must cover at least one week")
)

// Pairing is one scheduled match for a week. Team2ID is nil for a bye,
// which happens every week when the league has an odd number of teams.
type Pairing struct {
	WeekNumber int
	Team1ID    int
	Team2ID    *int
}

// byeSlot marks the phantom opponent inserted for odd team counts.
// Real team ids are always positive.
const byeSlot = 0

// RoundRobin builds pairings for the given weeks using the circle
// method: one team stays fixed while the rest rotate each week, so every
// team meets every other team once per cycle. When the season is longer
// than one cycle the rotation simply continues into a second leg.
func RoundRobin(teamIDs []int, weeks int) ([]Pairing, error) {
	if len(teamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}
	if weeks < 1 {
		return nil, ErrInvalidWeeks
	}

	slots := make([]int, len(teamIDs))
	copy(slots, teamIDs)
	if len(slots)%2 == 1 {
		slots = append(slots, byeSlot)
	}
	n := len(slots)
	roundsPerCycle := n - 1

	pairings := make([]Pairing, 0, weeks*n/2)
	for week := 1; week <= weeks; week++ {
		arrangement := rotate(slots, (week-1)%roundsPerCycle)
		for i := 0; i < n/2; i++ {
			a, b := arrangement[i], arrangement[n-1-i]
			switch {
			case a == byeSlot:
				pairings = append(pairings, Pairing{WeekNumber: week, Team1ID: b})
			case b == byeSlot:
				pairings = append(pairings, Pairing{WeekNumber: week, Team1ID: a})
			default:
				pairings = append(pairings, Pairing{WeekNumber: week, Team1ID: a, Team2ID: intPtr(b)})
			}
		}
	}
	return pairings, nil
}

// rotate returns the circle-method arrangement after the given number of
// rotations: slot 0 is pinned, the others shift right.
func rotate(slots []int, rounds int) []int {
	n := len(slots)
	out := make([]int, n)
	out[0] = slots[0]
	for i := 1; i < n; i++ {
		// Position i is filled by the team that started rounds steps back.
		src := ((i-1-rounds)%(n-1)+(n-1))%(n-1) + 1
		out[i] = slots[src]
	}
	return out
}

// Validate checks a generated schedule for the invariants the league
// cares about: every team plays at most once per week.
func Validate(pairings []Pairing) error {
	seen := make(map[int]map[int]bool)
	for _, p := range pairings {
		if seen[p.WeekNumber] == nil {
			seen[p.WeekNumber] = make(map[int]bool)
		}
		week := seen[p.WeekNumber]
		teams := []int{p.Team1ID}
		if p.Team2ID != nil {
			teams = append(teams, *p.Team2ID)
		}
		for _, t := range teams {
			if week[t] {
				return fmt.Errorf("team %d is scheduled twice in week %d", t, p.WeekNumber)
			}
			week[t] = true
		}
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}
