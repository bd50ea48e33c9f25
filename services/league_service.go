package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
)

type CreateLeagueInput struct {
	Name   string `json:"name"`
	Season string `json:"season"`
}

type LeagueService interface {
	// Create sets up a league together with its full calendar: ten
	// regular season weeks and two championship weeks.
	Create(ctx context.Context, input CreateLeagueInput) (*models.League, error)
	GetByID(ctx context.Context, id int) (*models.League, error)
	ListWeeks(ctx context.Context, leagueID int) ([]*models.Week, error)
	List(ctx context.Context) ([]*models.League, error)
	ListActive(ctx context.Context) ([]*models.League, error)
	Delete(ctx context.Context, id int) error
}

type leagueService struct {
	leagues repositories.LeagueRepository
	weeks   repositories.WeekRepository
	logger  *slog.Logger
}

func NewLeagueService(leagues repositories.LeagueRepository, weeks repositories.WeekRepository, logger *slog.Logger) LeagueService {
	return &leagueService{leagues: leagues, weeks: weeks, logger: logger}
}

func (s *leagueService) Create(ctx context.Context, input CreateLeagueInput) (*models.League, error) {
	name := strings.TrimSpace(input.Name)
	season := strings.TrimSpace(input.Season)
	if name == "" {
		return nil, ErrNameRequired
	}
	if season == "" {
		return nil, ErrSeasonRequired
	}

	league := &models.League{Name: name, Season: season, IsActive: true}
	if err := s.leagues.Create(ctx, league); err != nil {
		if errors.Is(err, repositories.ErrLeagueNameConflict) {
			return nil, ErrLeagueNameTaken
		}
		return nil, err
	}

	for n := 1; n <= models.RegularSeasonWeeks+models.ChampionshipWeeks; n++ {
		week := &models.Week{
			LeagueID:       league.ID,
			WeekNumber:     n,
			IsChampionship: n > models.RegularSeasonWeeks,
		}
		if err := s.weeks.Create(ctx, week); err != nil {
			return nil, err
		}
	}

	s.logger.Info("league created",
		slog.Int("league_id", league.ID),
		slog.String("name", league.Name),
		slog.String("season", league.Season))
	return league, nil
}

func (s *leagueService) GetByID(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return league, nil
}

func (s *leagueService) ListWeeks(ctx context.Context, leagueID int) ([]*models.Week, error) {
	if _, err := s.GetByID(ctx, leagueID); err != nil {
		return nil, err
	}
	return s.weeks.ListByLeague(ctx, leagueID)
}

func (s *leagueService) List(ctx context.Context) ([]*models.League, error) {
	return s.leagues.List(ctx)
}

func (s *leagueService) ListActive(ctx context.Context) ([]*models.League, error) {
	return s.leagues.ListActive(ctx)
}

func (s *leagueService) Delete(ctx context.Context, id int) error {
	err := s.leagues.Delete(ctx, id)
	if errors.Is(err, repositories.ErrLeagueNotFound) {
		return ErrLeagueNotFound
	}
	return err
}
