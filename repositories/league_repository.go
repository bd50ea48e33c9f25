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
	ErrLeagueNotFound     = errors.New("league not found")
	ErrLeagueNameConflict = errors.New("league name already in use for this season")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	List(ctx context.Context) ([]*models.League, error)
	ListActive(ctx context.Context) ([]*models.League, error)
	Delete(ctx context.Context, id int) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues (name, season, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, league.Name, league.Season, league.IsActive).
		Scan(&league.ID, &league.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "leagues_name_season_key" {
			return ErrLeagueNameConflict
		}
		return fmt.Errorf("failed to insert league: %w", err)
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `SELECT id, name, season, is_active, created_at FROM leagues WHERE id = $1`

	league := &models.League{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&league.ID,
		&league.Name,
		&league.Season,
		&league.IsActive,
		&league.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan league %d: %w", id, err)
	}
	return league, nil
}

func (r *postgresLeagueRepository) List(ctx context.Context) ([]*models.League, error) {
	return r.list(ctx, `SELECT id, name, season, is_active, created_at FROM leagues ORDER BY id`)
}

func (r *postgresLeagueRepository) ListActive(ctx context.Context) ([]*models.League, error) {
	return r.list(ctx, `SELECT id, name, season, is_active, created_at FROM leagues WHERE is_active ORDER BY id`)
}

func (r *postgresLeagueRepository) list(ctx context.Context, query string) ([]*models.League, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leagues: %w", err)
	}
	defer rows.Close()

	leagues := make([]*models.League, 0)
	for rows.Next() {
		var l models.League
		if scanErr := rows.Scan(&l.ID, &l.Name, &l.Season, &l.IsActive, &l.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan league row: %w", scanErr)
		}
		leagues = append(leagues, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during league rows iteration: %w", err)
	}
	return leagues, nil
}

func (r *postgresLeagueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete league %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}
