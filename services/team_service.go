package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
)

// maxTeamsPerPlayer is a league rule: a player may appear on at most two
// teams, e.g. one regular pairing and one substitute pairing.
const maxTeamsPerPlayer = 2

type CreateTeamInput struct {
	LeagueID  int    `json:"league_id"`
	Name      string `json:"name"`
	Player1ID int    `json:"player1_id"`
	Player2ID int    `json:"player2_id"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error)
	Delete(ctx context.Context, id int) error
}

type teamService struct {
	teams   repositories.TeamRepository
	players repositories.PlayerRepository
	logger  *slog.Logger
}

func NewTeamService(teams repositories.TeamRepository, players repositories.PlayerRepository, logger *slog.Logger) TeamService {
	return &teamService{teams: teams, players: players, logger: logger}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.Player1ID == input.Player2ID {
		return nil, ErrTeamSamePlayer
	}

	for _, playerID := range []int{input.Player1ID, input.Player2ID} {
		player, err := s.players.GetByID(ctx, playerID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return nil, ErrPlayerNotFound
			}
			return nil, err
		}
		if player.LeagueID != input.LeagueID {
			return nil, ErrTeamLeagueMismatch
		}
		count, err := s.teams.CountForPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if count >= maxTeamsPerPlayer {
			return nil, ErrTeamPlayerLimit
		}
	}

	team := &models.Team{
		LeagueID:  input.LeagueID,
		Name:      name,
		Player1ID: input.Player1ID,
		Player2ID: input.Player2ID,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameTaken
		case errors.Is(err, repositories.ErrTeamPlayerInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error) {
	return s.teams.ListByLeague(ctx, leagueID)
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	err := s.teams.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return ErrTeamNotFound
	}
	return err
}
