package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robtee24/tee24-winterleague-sub000/live"
	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
	"github.com/robtee24/tee24-winterleague-sub000/schedule"
	"github.com/robtee24/tee24-winterleague-sub000/scoring"
)

// CreateMatchInput describes a manually created match, used for the
// championship rounds where the commissioner sets the pairings.
type CreateMatchInput struct {
	LeagueID       int  `json:"league_id"`
	WeekNumber     int  `json:"week_number"`
	IsChampionship bool `json:"is_championship"`
	Team1ID        int  `json:"team1_id"`
	Team2ID        *int `json:"team2_id,omitempty"`
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Match, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Match, error)
	Delete(ctx context.Context, id int) error
	// GenerateSeason replaces the regular season schedule with a fresh
	// round robin over the league's current teams.
	GenerateSeason(ctx context.Context, leagueID int) ([]*models.Match, error)
	// RecalculateWeek rescores every match of the week from the
	// authoritative scorecards. Matches where a team has no hole data yet
	// are left untouched.
	RecalculateWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) error
}

type matchService struct {
	db      *sql.DB
	matches repositories.MatchRepository
	teams   repositories.TeamRepository
	scores  repositories.ScoreRepository
	players repositories.PlayerRepository
	leagues repositories.LeagueRepository
	hub     Broadcaster
	logger  *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matches repositories.MatchRepository,
	teams repositories.TeamRepository,
	scores repositories.ScoreRepository,
	players repositories.PlayerRepository,
	leagues repositories.LeagueRepository,
	hub Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:      db,
		matches: matches,
		teams:   teams,
		scores:  scores,
		players: players,
		leagues: leagues,
		hub:     hub,
		logger:  logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	maxWeek := models.RegularSeasonWeeks
	minWeek := 1
	if input.IsChampionship {
		minWeek = models.RegularSeasonWeeks + 1
		maxWeek = models.RegularSeasonWeeks + models.ChampionshipWeeks
	}
	if input.WeekNumber < minWeek || input.WeekNumber > maxWeek {
		return nil, ErrWeekNumberInvalid
	}

	if input.IsChampionship {
		// Championship pairings depend on the final season handicaps, so
		// they cannot be set until every player has finished week 10.
		roster, err := s.players.CountByLeague(ctx, input.LeagueID)
		if err != nil {
			return nil, err
		}
		submitted, err := s.scores.CountDistinctSubmitted(ctx, input.LeagueID, models.RegularSeasonWeeks, false)
		if err != nil {
			return nil, err
		}
		if roster == 0 || submitted < roster {
			return nil, ErrChampionshipTooSoon
		}
	}

	team1, err := s.teams.GetByID(ctx, input.Team1ID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team1.LeagueID != input.LeagueID {
		return nil, ErrMatchTeamsInvalid
	}
	if input.Team2ID != nil {
		if *input.Team2ID == input.Team1ID {
			return nil, ErrMatchTeamsInvalid
		}
		team2, err := s.teams.GetByID(ctx, *input.Team2ID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, err
		}
		if team2.LeagueID != input.LeagueID {
			return nil, ErrMatchTeamsInvalid
		}
	}

	match := &models.Match{
		LeagueID:       input.LeagueID,
		WeekNumber:     input.WeekNumber,
		IsChampionship: input.IsChampionship,
		Team1ID:        input.Team1ID,
		Team2ID:        input.Team2ID,
	}
	if err := s.matches.Create(ctx, s.db, match); err != nil {
		if errors.Is(err, repositories.ErrMatchTeamInvalid) {
			return nil, ErrMatchTeamsInvalid
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Match, error) {
	return s.matches.ListByWeek(ctx, leagueID, weekNumber, isChampionship)
}

func (s *matchService) ListByLeague(ctx context.Context, leagueID int) ([]*models.Match, error) {
	return s.matches.ListByLeague(ctx, leagueID)
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	err := s.matches.Delete(ctx, id)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}

// GenerateSeason wipes and regenerates the regular season schedule in
// one transaction, so a failed generation never leaves a half-written
// calendar behind.
func (s *matchService) GenerateSeason(ctx context.Context, leagueID int) ([]*models.Match, error) {
	if _, err := s.leagues.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}

	teams, err := s.teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	teamIDs := make([]int, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}

	pairings, err := schedule.RoundRobin(teamIDs, models.RegularSeasonWeeks)
	if err != nil {
		if errors.Is(err, schedule.ErrNotEnoughTeams) {
			return nil, ErrNotEnoughTeams
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin schedule transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matches.DeleteRegularSeason(ctx, tx, leagueID); err != nil {
		return nil, err
	}

	matches := make([]*models.Match, 0, len(pairings))
	for _, p := range pairings {
		match := &models.Match{
			LeagueID:   leagueID,
			WeekNumber: p.WeekNumber,
			Team1ID:    p.Team1ID,
			Team2ID:    p.Team2ID,
		}
		if err := s.matches.Create(ctx, tx, match); err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit schedule transaction: %w", err)
	}

	s.logger.Info("regular season schedule generated",
		slog.Int("league_id", leagueID),
		slog.Int("teams", len(teams)),
		slog.Int("matches", len(matches)))
	return matches, nil
}

func (s *matchService) RecalculateWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) error {
	matches, err := s.matches.ListByWeek(ctx, leagueID, weekNumber, isChampionship)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	weekScores, err := s.scores.ListAuthoritativeByWeek(ctx, leagueID, weekNumber, isChampionship)
	if err != nil {
		return err
	}
	byPlayer := make(map[int]*models.Score, len(weekScores))
	for _, sc := range weekScores {
		byPlayer[sc.PlayerID] = sc
	}

	teamCache := make(map[int]*models.Team)
	cards := func(teamID int) (scoring.TeamCards, error) {
		team, ok := teamCache[teamID]
		if !ok {
			var err error
			team, err = s.teams.GetByID(ctx, teamID)
			if err != nil {
				return scoring.TeamCards{}, err
			}
			teamCache[teamID] = team
		}
		return scoring.TeamCards{
			Card1: byPlayer[team.Player1ID],
			Card2: byPlayer[team.Player2ID],
		}, nil
	}

	for _, m := range matches {
		if m.Team2ID == nil {
			// Bye weeks are never scored.
			continue
		}
		team1Cards, err := cards(m.Team1ID)
		if err != nil {
			return err
		}
		team2Cards, err := cards(*m.Team2ID)
		if err != nil {
			return err
		}

		result, ok := scoring.ScoreBestBallMatch(team1Cards, team2Cards)
		if !ok {
			// A team has no hole data yet; leave the match as it stands.
			continue
		}

		var winner *int
		switch result.Winner {
		case scoring.SideTeam1:
			winner = intPtr(m.Team1ID)
		case scoring.SideTeam2:
			winner = intPtr(*m.Team2ID)
		}

		if m.Team1Points == result.Team1Points && m.Team2Points == result.Team2Points && intPtrEqual(m.WinnerTeamID, winner) {
			continue
		}
		if err := s.matches.UpdateResult(ctx, s.db, m.ID, result.Team1Points, result.Team2Points, winner); err != nil {
			return err
		}
		s.hub.BroadcastToLeague(leagueID, live.EventMatchUpdated, map[string]interface{}{
			"match_id":     m.ID,
			"week_number":  weekNumber,
			"team1_points": result.Team1Points,
			"team2_points": result.Team2Points,
			"winner_id":    winner,
		})
	}
	return nil
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
