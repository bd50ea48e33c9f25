package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robtee24/tee24-winterleague-sub000/models"
)

func weekScore(scoreID, playerID, weekNumber, total int, weighted *int) *models.WeekScore {
	return &models.WeekScore{
		Score: models.Score{
			ID:            scoreID,
			PlayerID:      playerID,
			Total:         intPtr(total),
			WeightedScore: weighted,
		},
		WeekNumber: weekNumber,
	}
}

func TestSeasonStandings(t *testing.T) {
	players := &fakePlayerRepo{
		listByLeagueFunc: func(context.Context, int) ([]*models.Player, error) {
			return []*models.Player{
				{ID: 1, LeagueID: 1, FirstName: "Ann", LastName: "Park"},
				{ID: 2, LeagueID: 1, FirstName: "Bob", LastName: "Lee"},
				{ID: 3, LeagueID: 1, FirstName: "Cal", LastName: "Roy"},
			}, nil
		},
	}
	scores := &fakeScoreRepo{
		listSeasonFunc: func(context.Context, int) ([]*models.WeekScore, error) {
			return []*models.WeekScore{
				weekScore(11, 1, 1, 72, intPtr(70)),
				weekScore(21, 1, 2, 74, intPtr(72)),
				weekScore(12, 2, 1, 80, intPtr(71)),
				// A round the cascade has not weighted yet counts at gross.
				weekScore(22, 2, 2, 78, nil),
			}, nil
		},
	}
	handicaps := &fakeHandicapRepo{
		listByLeagueFunc: func(context.Context, int) ([]*models.WeekHandicap, error) {
			return []*models.WeekHandicap{
				{Handicap: models.Handicap{PlayerID: 2, AppliedHandicap: intPtr(9)}, WeekNumber: 1},
				{Handicap: models.Handicap{PlayerID: 2, AppliedHandicap: intPtr(8)}, WeekNumber: 2},
			}, nil
		},
	}
	svc := NewLeaderboardService(players, scores, handicaps, &fakeTeamRepo{}, &fakeMatchRepo{})

	standings, err := svc.SeasonStandings(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, standings, 3)

	// Ann: (70+72)/2 = 71. Bob: (71+78)/2 = 74.5. Cal: no rounds, last.
	assert.Equal(t, 1, standings[0].PlayerID)
	assert.Equal(t, 71.0, standings[0].AvgWeighted)
	assert.Equal(t, 146, standings[0].GrossTotal)

	assert.Equal(t, 2, standings[1].PlayerID)
	assert.Equal(t, 74.5, standings[1].AvgWeighted)
	assert.Equal(t, 8, standings[1].CurrentApplied, "latest week's applied handicap wins")

	assert.Equal(t, 3, standings[2].PlayerID)
	assert.Equal(t, 0, standings[2].RoundsPlayed)
}

func TestTeamStandings(t *testing.T) {
	teams := &fakeTeamRepo{
		listByLeagueFunc: func(context.Context, int) ([]*models.Team, error) {
			return []*models.Team{
				{ID: 10, LeagueID: 1, Name: "Shankopotamus"},
				{ID: 20, LeagueID: 1, Name: "Fore Play"},
			}, nil
		},
	}
	matches := &fakeMatchRepo{
		listByLeagueFunc: func(context.Context, int) ([]*models.Match, error) {
			return []*models.Match{
				{ID: 1, WeekNumber: 1, Team1ID: 10, Team2ID: intPtr(20), Team1Points: 7, Team2Points: 5, WinnerTeamID: intPtr(10)},
				{ID: 2, WeekNumber: 2, Team1ID: 20, Team2ID: intPtr(10), Team1Points: 4, Team2Points: 4},
				// Unscored match: no points, no winner, not played yet.
				{ID: 3, WeekNumber: 3, Team1ID: 10, Team2ID: intPtr(20)},
				// Bye rows never count.
				{ID: 4, WeekNumber: 4, Team1ID: 10},
			}, nil
		},
	}
	svc := NewLeaderboardService(&fakePlayerRepo{}, &fakeScoreRepo{}, &fakeHandicapRepo{}, teams, matches)

	standings, err := svc.TeamStandings(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, standings, 2)

	first := standings[0]
	assert.Equal(t, 10, first.TeamID)
	assert.Equal(t, 2, first.MatchesPlayed)
	assert.Equal(t, 1, first.Wins)
	assert.Equal(t, 1, first.Ties)
	assert.Equal(t, 11, first.PointsFor)
	assert.Equal(t, 9, first.PointsAgainst)

	second := standings[1]
	assert.Equal(t, 20, second.TeamID)
	assert.Equal(t, 0, second.Wins)
	assert.Equal(t, 1, second.Losses)
	assert.Equal(t, 1, second.Ties)
}

func TestWeekLeaderboard(t *testing.T) {
	players := &fakePlayerRepo{
		listByLeagueFunc: func(context.Context, int) ([]*models.Player, error) {
			return []*models.Player{
				{ID: 1, LeagueID: 1, FirstName: "Ann", LastName: "Park"},
				{ID: 2, LeagueID: 1, FirstName: "Bob", LastName: "Lee"},
			}, nil
		},
	}
	scores := &fakeScoreRepo{
		listAuthoritativeByWeekFunc: func(context.Context, int, int, bool) ([]*models.Score, error) {
			return []*models.Score{
				{ID: 11, PlayerID: 1, Total: intPtr(80), WeightedScore: intPtr(74)},
			}, nil
		},
	}
	handicaps := &fakeHandicapRepo{
		listByLeagueFunc: func(context.Context, int) ([]*models.WeekHandicap, error) {
			return []*models.WeekHandicap{
				{Handicap: models.Handicap{PlayerID: 1, AppliedHandicap: intPtr(6)}, WeekNumber: 5},
			}, nil
		},
	}
	svc := NewLeaderboardService(players, scores, handicaps, &fakeTeamRepo{}, &fakeMatchRepo{})

	board, err := svc.WeekLeaderboard(context.Background(), 1, 5, false)
	require.NoError(t, err)
	assert.False(t, board.Complete, "one of two players has not submitted")
	require.Len(t, board.Rows, 2)

	assert.Equal(t, 1, board.Rows[0].PlayerID)
	require.NotNil(t, board.Rows[0].WeightedScore)
	assert.Equal(t, 74, *board.Rows[0].WeightedScore)
	require.NotNil(t, board.Rows[0].Applied)
	assert.Equal(t, 6, *board.Rows[0].Applied)

	assert.Equal(t, 2, board.Rows[1].PlayerID, "players without a card sort last")
	assert.Nil(t, board.Rows[1].Total)
}
