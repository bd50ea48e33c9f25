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
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamPlayerInvalid = errors.New("team player conflict or invalid")
	ErrTeamNameConflict  = errors.New("team name already in use in this league")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error)
	// CountForPlayer reports how many teams a player already belongs to;
	// the league rule allows at most two.
	CountForPlayer(ctx context.Context, playerID int) (int, error)
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (league_id, name, player1_id, player2_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.LeagueID,
		team.Name,
		team.Player1ID,
		team.Player2ID,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "teams_player1_id_fkey", "teams_player2_id_fkey":
				return ErrTeamPlayerInvalid
			case "teams_league_id_name_key":
				return ErrTeamNameConflict
			}
		}
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, league_id, name, player1_id, player2_id, created_at FROM teams WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.LeagueID,
		&team.Name,
		&team.Player1ID,
		&team.Player2ID,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error) {
	query := `
		SELECT id, league_id, name, player1_id, player2_id, created_at
		FROM teams
		WHERE league_id = $1
		ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(&t.ID, &t.LeagueID, &t.Name, &t.Player1ID, &t.Player2ID, &t.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) CountForPlayer(ctx context.Context, playerID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE player1_id = $1 OR player2_id = $1`, playerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams for player %d: %w", playerID, err)
	}
	return count, nil
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
