package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
	"github.com/robtee24/tee24-winterleague-sub000/utils"
)

type CreatePlayerInput struct {
	LeagueID  int     `json:"league_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Player, error)
	// Delete removes the player with their scores and handicaps and kicks
	// off a recompute, since roster size feeds the completion gates.
	Delete(ctx context.Context, id int) error
}

type playerService struct {
	db         *sql.DB
	players    repositories.PlayerRepository
	leagues    repositories.LeagueRepository
	recomputes RecomputeEnqueuer
	logger     *slog.Logger
}

func NewPlayerService(
	db *sql.DB,
	players repositories.PlayerRepository,
	leagues repositories.LeagueRepository,
	recomputes RecomputeEnqueuer,
	logger *slog.Logger,
) PlayerService {
	return &playerService{db: db, players: players, leagues: leagues, recomputes: recomputes, logger: logger}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, ErrNameRequired
	}
	if input.Email != nil && !utils.IsValidEmail(*input.Email) {
		return nil, ErrEmailInvalid
	}

	if _, err := s.leagues.GetByID(ctx, input.LeagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}

	player := &models.Player{
		LeagueID:  input.LeagueID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     input.Email,
		Phone:     input.Phone,
	}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) ListByLeague(ctx context.Context, leagueID int) ([]*models.Player, error) {
	return s.players.ListByLeague(ctx, leagueID)
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	player, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin player delete transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.players.Delete(ctx, tx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player delete transaction: %w", err)
	}

	s.logger.Info("player deleted",
		slog.Int("player_id", id), slog.Int("league_id", player.LeagueID))
	s.recomputes.Enqueue(RecomputeTask{LeagueID: player.LeagueID})
	return nil
}
