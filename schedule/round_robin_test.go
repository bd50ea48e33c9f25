package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobin_EvenTeams(t *testing.T) {
	pairings, err := RoundRobin([]int{1, 2, 3, 4}, 3)
	require.NoError(t, err)
	require.NoError(t, Validate(pairings))

	// Four teams, three weeks: every team plays every week, no byes.
	assert.Len(t, pairings, 6)
	for _, p := range pairings {
		assert.NotNil(t, p.Team2ID, "even team count must not produce byes")
	}

	// One full cycle means every pair meets exactly once.
	met := make(map[[2]int]int)
	for _, p := range pairings {
		a, b := p.Team1ID, *p.Team2ID
		if b < a {
			a, b = b, a
		}
		met[[2]int{a, b}]++
	}
	assert.Len(t, met, 6)
	for pair, count := range met {
		assert.Equal(t, 1, count, "pair %v met more than once in one cycle", pair)
	}
}

func TestRoundRobin_OddTeamsGetByes(t *testing.T) {
	pairings, err := RoundRobin([]int{10, 20, 30}, 3)
	require.NoError(t, err)
	require.NoError(t, Validate(pairings))

	byes := make(map[int]int)
	for _, p := range pairings {
		if p.Team2ID == nil {
			byes[p.Team1ID]++
		}
	}
	// Three teams over three weeks: each team sits out exactly once.
	assert.Len(t, byes, 3)
	for team, count := range byes {
		assert.Equal(t, 1, count, "team %d should have exactly one bye", team)
	}
}

func TestRoundRobin_SeasonLongerThanCycle(t *testing.T) {
	// Ten-week season with four teams: the three-week cycle repeats.
	pairings, err := RoundRobin([]int{1, 2, 3, 4}, 10)
	require.NoError(t, err)
	require.NoError(t, Validate(pairings))
	assert.Len(t, pairings, 20)

	weeks := make(map[int]int)
	for _, p := range pairings {
		weeks[p.WeekNumber]++
	}
	assert.Len(t, weeks, 10)
	for week, count := range weeks {
		assert.Equal(t, 2, count, "week %d should have two matches", week)
	}
}

func TestRoundRobin_Errors(t *testing.T) {
	_, err := RoundRobin([]int{1}, 10)
	assert.ErrorIs(t, err, ErrNotEnoughTeams)

	_, err = RoundRobin([]int{1, 2}, 0)
	assert.ErrorIs(t, err, ErrInvalidWeeks)
}
