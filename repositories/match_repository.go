package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/robtee24/tee24-winterleague-sub000/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Match, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Match, error)
	// UpdateResult writes the recomputed points and winner. Last write
	// wins; the recompute cascade converges regardless of ordering.
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, team1Points, team2Points int, winnerTeamID *int) error
	Delete(ctx context.Context, id int) error
	// DeleteRegularSeason clears the generated schedule so it can be
	// regenerated before play starts.
	DeleteRegularSeason(ctx context.Context, exec SQLExecutor, leagueID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, league_id, week_number, is_championship, team1_id, team2_id, team1_points, team2_points, winner_team_id, updated_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (league_id, week_number, is_championship, team1_id, team2_id, team1_points, team2_points, winner_team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, updated_at`

	err := exec.QueryRowContext(ctx, query,
		match.LeagueID,
		match.WeekNumber,
		match.IsChampionship,
		match.Team1ID,
		match.Team2ID,
		match.Team1Points,
		match.Team2Points,
		match.WinnerTeamID,
	).Scan(&match.ID, &match.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "matches_team1_id_fkey", "matches_team2_id_fkey", "matches_winner_team_id_fkey":
				return ErrMatchTeamInvalid
			}
		}
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.scanMatch(r.db.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE league_id = $1 AND week_number = $2 AND is_championship = $3
		ORDER BY id`

	return r.list(ctx, query, leagueID, weekNumber, isChampionship)
}

func (r *postgresMatchRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE league_id = $1
		ORDER BY is_championship, week_number, id`

	return r.list(ctx, query, leagueID)
}

func (r *postgresMatchRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := r.scanMatch(rows, &m); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID,
		&m.LeagueID,
		&m.WeekNumber,
		&m.IsChampionship,
		&m.Team1ID,
		&m.Team2ID,
		&m.Team1Points,
		&m.Team2Points,
		&m.WinnerTeamID,
		&m.UpdatedAt,
	)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, team1Points, team2Points int, winnerTeamID *int) error {
	query := `
		UPDATE matches
		SET team1_points = $1, team2_points = $2, winner_team_id = $3, updated_at = NOW()
		WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, team1Points, team2Points, winnerTeamID, id)
	if err != nil {
		return fmt.Errorf("failed to update result for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteRegularSeason(ctx context.Context, exec SQLExecutor, leagueID int) error {
	_, err := exec.ExecContext(ctx,
		`DELETE FROM matches WHERE league_id = $1 AND NOT is_championship`, leagueID)
	if err != nil {
		return fmt.Errorf("failed to delete regular season matches for league %d: %w", leagueID, err)
	}
	return nil
}
