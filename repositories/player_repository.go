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
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerLeagueInvalid = errors.New("player league conflict or invalid")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Player, error)
	CountByLeague(ctx context.Context, leagueID int) (int, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (league_id, first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.LeagueID,
		player.FirstName,
		player.LastName,
		player.Email,
		player.Phone,
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "players_league_id_fkey" {
			return ErrPlayerLeagueInvalid
		}
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, league_id, first_name, last_name, email, phone, created_at
		FROM players
		WHERE id = $1`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.LeagueID,
		&player.FirstName,
		&player.LastName,
		&player.Email,
		&player.Phone,
		&player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %d: %w", id, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Player, error) {
	query := `
		SELECT id, league_id, first_name, last_name, email, phone, created_at
		FROM players
		WHERE league_id = $1
		ORDER BY last_name, first_name, id`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.LeagueID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) CountByLeague(ctx context.Context, leagueID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE league_id = $1`, leagueID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players for league %d: %w", leagueID, err)
	}
	return count, nil
}

// Delete removes a player together with their scores and handicaps.
// Callers pass a transaction so cleanup is all-or-nothing.
func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM handicaps WHERE player_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete handicaps for player %d: %w", id, err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM scores WHERE player_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete scores for player %d: %w", id, err)
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
