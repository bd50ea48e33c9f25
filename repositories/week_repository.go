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
	ErrWeekNotFound      = errors.New("week not found")
	ErrWeekConflict      = errors.New("week already exists for this league")
	ErrWeekLeagueInvalid = errors.New("week league conflict or invalid")
)

type WeekRepository interface {
	Create(ctx context.Context, week *models.Week) error
	GetByID(ctx context.Context, id int) (*models.Week, error)
	// GetCanonicalByNumber returns the most recently created week row for
	// (league, weekNumber, isChampionship). Legacy data may hold duplicate
	// rows for the same coordinates; the newest one is authoritative for
	// writes keyed by week id.
	GetCanonicalByNumber(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (*models.Week, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Week, error)
}

type postgresWeekRepository struct {
	db *sql.DB
}

func NewPostgresWeekRepository(db *sql.DB) WeekRepository {
	return &postgresWeekRepository{db: db}
}

func (r *postgresWeekRepository) Create(ctx context.Context, week *models.Week) error {
	query := `
		INSERT INTO weeks (league_id, week_number, is_championship)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		week.LeagueID,
		week.WeekNumber,
		week.IsChampionship,
	).Scan(&week.ID, &week.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "weeks_league_id_week_number_is_championship_key":
				return ErrWeekConflict
			case "weeks_league_id_fkey":
				return ErrWeekLeagueInvalid
			}
		}
		return fmt.Errorf("failed to insert week: %w", err)
	}
	return nil
}

func (r *postgresWeekRepository) GetByID(ctx context.Context, id int) (*models.Week, error) {
	query := `SELECT id, league_id, week_number, is_championship, created_at FROM weeks WHERE id = $1`

	week := &models.Week{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&week.ID,
		&week.LeagueID,
		&week.WeekNumber,
		&week.IsChampionship,
		&week.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to scan week %d: %w", id, err)
	}
	return week, nil
}

func (r *postgresWeekRepository) GetCanonicalByNumber(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (*models.Week, error) {
	query := `
		SELECT id, league_id, week_number, is_championship, created_at
		FROM weeks
		WHERE league_id = $1 AND week_number = $2 AND is_championship = $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	week := &models.Week{}
	err := r.db.QueryRowContext(ctx, query, leagueID, weekNumber, isChampionship).Scan(
		&week.ID,
		&week.LeagueID,
		&week.WeekNumber,
		&week.IsChampionship,
		&week.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to scan week %d for league %d: %w", weekNumber, leagueID, err)
	}
	return week, nil
}

func (r *postgresWeekRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Week, error) {
	query := `
		SELECT id, league_id, week_number, is_championship, created_at
		FROM weeks
		WHERE league_id = $1
		ORDER BY is_championship, week_number, created_at`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	weeks := make([]*models.Week, 0)
	for rows.Next() {
		var w models.Week
		if scanErr := rows.Scan(&w.ID, &w.LeagueID, &w.WeekNumber, &w.IsChampionship, &w.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan week row: %w", scanErr)
		}
		weeks = append(weeks, &w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during week rows iteration: %w", err)
	}
	return weeks, nil
}
