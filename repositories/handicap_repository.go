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
	ErrHandicapNotFound      = errors.New("handicap not found")
	ErrHandicapPlayerInvalid = errors.New("handicap player conflict or invalid")
	ErrHandicapWeekInvalid   = errors.New("handicap week conflict or invalid")
)

type HandicapRepository interface {
	// Upsert writes the full handicap state for (player, week). Running
	// the engine twice converges to the same row, which is what makes
	// recomputation idempotent.
	Upsert(ctx context.Context, exec SQLExecutor, h *models.Handicap) error
	GetByPlayerWeek(ctx context.Context, playerID, weekID int) (*models.Handicap, error)
	// ListByLeague returns every handicap row for the league joined with
	// week coordinates, ordered by week number.
	ListByLeague(ctx context.Context, leagueID int) ([]*models.WeekHandicap, error)
}

type postgresHandicapRepository struct {
	db *sql.DB
}

func NewPostgresHandicapRepository(db *sql.DB) HandicapRepository {
	return &postgresHandicapRepository{db: db}
}

func (r *postgresHandicapRepository) Upsert(ctx context.Context, exec SQLExecutor, h *models.Handicap) error {
	query := `
		INSERT INTO handicaps (player_id, week_id, raw_handicap, applied_handicap, is_baseline)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, week_id) DO UPDATE
		SET raw_handicap = EXCLUDED.raw_handicap,
		    applied_handicap = EXCLUDED.applied_handicap,
		    is_baseline = EXCLUDED.is_baseline
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		h.PlayerID,
		h.WeekID,
		h.RawHandicap,
		h.AppliedHandicap,
		h.IsBaseline,
	).Scan(&h.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "handicaps_player_id_fkey":
				return ErrHandicapPlayerInvalid
			case "handicaps_week_id_fkey":
				return ErrHandicapWeekInvalid
			}
		}
		return fmt.Errorf("failed to upsert handicap for player %d week %d: %w", h.PlayerID, h.WeekID, err)
	}
	return nil
}

func (r *postgresHandicapRepository) GetByPlayerWeek(ctx context.Context, playerID, weekID int) (*models.Handicap, error) {
	query := `
		SELECT id, player_id, week_id, raw_handicap, applied_handicap, is_baseline
		FROM handicaps
		WHERE player_id = $1 AND week_id = $2`

	h := &models.Handicap{}
	err := r.db.QueryRowContext(ctx, query, playerID, weekID).Scan(
		&h.ID,
		&h.PlayerID,
		&h.WeekID,
		&h.RawHandicap,
		&h.AppliedHandicap,
		&h.IsBaseline,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHandicapNotFound
		}
		return nil, fmt.Errorf("failed to scan handicap for player %d week %d: %w", playerID, weekID, err)
	}
	return h, nil
}

func (r *postgresHandicapRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.WeekHandicap, error) {
	query := `
		SELECT h.id, h.player_id, h.week_id, h.raw_handicap, h.applied_handicap, h.is_baseline,
		       w.week_number, w.is_championship
		FROM handicaps h
		JOIN weeks w ON w.id = h.week_id
		WHERE w.league_id = $1
		ORDER BY w.is_championship, w.week_number, h.player_id`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query handicaps for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	handicaps := make([]*models.WeekHandicap, 0)
	for rows.Next() {
		var wh models.WeekHandicap
		if scanErr := rows.Scan(
			&wh.ID,
			&wh.PlayerID,
			&wh.WeekID,
			&wh.RawHandicap,
			&wh.AppliedHandicap,
			&wh.IsBaseline,
			&wh.WeekNumber,
			&wh.IsChampionship,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan handicap row: %w", scanErr)
		}
		handicaps = append(handicaps, &wh)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during handicap rows iteration: %w", err)
	}
	return handicaps, nil
}
