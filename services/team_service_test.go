package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
)

func TestCreateTeam(t *testing.T) {
	players := &fakePlayerRepo{
		getByIDFunc: func(_ context.Context, id int) (*models.Player, error) {
			switch id {
			case 1, 2:
				return &models.Player{ID: id, LeagueID: 1}, nil
			case 3:
				return &models.Player{ID: 3, LeagueID: 2}, nil
			default:
				return nil, repositories.ErrPlayerNotFound
			}
		},
	}
	teamCounts := map[int]int{}
	teams := &fakeTeamRepo{
		createFunc: func(_ context.Context, team *models.Team) error {
			team.ID = 77
			return nil
		},
		countForPlayerFunc: func(_ context.Context, playerID int) (int, error) {
			return teamCounts[playerID], nil
		},
	}
	svc := NewTeamService(teams, players, testLogger())

	t.Run("creates a valid team", func(t *testing.T) {
		team, err := svc.Create(context.Background(), CreateTeamInput{
			LeagueID: 1, Name: "The Mulligans", Player1ID: 1, Player2ID: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 77, team.ID)
	})

	t.Run("rejects a player on two teams already", func(t *testing.T) {
		teamCounts[1] = 2
		defer delete(teamCounts, 1)
		_, err := svc.Create(context.Background(), CreateTeamInput{
			LeagueID: 1, Name: "Third Wheel", Player1ID: 1, Player2ID: 2,
		})
		assert.ErrorIs(t, err, ErrTeamPlayerLimit)
	})

	t.Run("rejects the same player twice", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateTeamInput{
			LeagueID: 1, Name: "Solo", Player1ID: 1, Player2ID: 1,
		})
		assert.ErrorIs(t, err, ErrTeamSamePlayer)
	})

	t.Run("rejects players from another league", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateTeamInput{
			LeagueID: 1, Name: "Ringers", Player1ID: 1, Player2ID: 3,
		})
		assert.ErrorIs(t, err, ErrTeamLeagueMismatch)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateTeamInput{
			LeagueID: 1, Name: "   ", Player1ID: 1, Player2ID: 2,
		})
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}
