package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/robtee24/tee24-winterleague-sub000/models"
)

var (
	ErrScoreNotFound      = errors.New("score not found")
	ErrScorePlayerInvalid = errors.New("score player conflict or invalid")
	ErrScoreWeekInvalid   = errors.New("score week conflict or invalid")
)

// WeightedUpdate pairs a score row with its recomputed weighted value.
type WeightedUpdate struct {
	ScoreID  int
	Weighted int
}

// weightedBatchSize bounds how many rows a single weighted-score UPDATE
// touches, to keep each statement short against the shared pool.
const weightedBatchSize = 50

type ScoreRepository interface {
	Create(ctx context.Context, exec SQLExecutor, score *models.Score) error
	Update(ctx context.Context, exec SQLExecutor, score *models.Score) error
	GetByID(ctx context.Context, id int) (*models.Score, error)
	// GetAuthoritative returns the newest score row for a player and week
	// number, aggregating across duplicate week rows.
	GetAuthoritative(ctx context.Context, playerID, leagueID, weekNumber int, isChampionship bool) (*models.Score, error)
	// ListAuthoritativeByWeek returns one score per player for the week
	// number: the most recently updated row wins when duplicates exist.
	ListAuthoritativeByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Score, error)
	// ListSeasonAuthoritative returns every player's authoritative score
	// for every week of the league, joined with week coordinates.
	ListSeasonAuthoritative(ctx context.Context, leagueID int) ([]*models.WeekScore, error)
	// DeleteSuperseded removes all of a player's score rows for the week
	// number except keepID. Used when reconciling duplicate submissions.
	DeleteSuperseded(ctx context.Context, exec SQLExecutor, playerID, leagueID, weekNumber int, isChampionship bool, keepID int) (int64, error)
	// CountDistinctSubmitted counts players with a non-null total for the
	// week number, across any duplicate week rows. Feeds the completion gate.
	CountDistinctSubmitted(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (int, error)
	UpdateWeightedBatch(ctx context.Context, exec SQLExecutor, updates []WeightedUpdate) error
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

func holeColumns() string {
	cols := make([]string, models.HolesPerRound)
	for i := range cols {
		cols[i] = "hole" + strconv.Itoa(i+1)
	}
	return strings.Join(cols, ", ")
}

var scoreColumns = fmt.Sprintf(
	"id, player_id, week_id, %s, front9, back9, total, weighted_score, card_image_key, created_at, updated_at",
	holeColumns(),
)

func scanScore(row interface{ Scan(...interface{}) error }, s *models.Score) error {
	dest := make([]interface{}, 0, 9+models.HolesPerRound)
	dest = append(dest, &s.ID, &s.PlayerID, &s.WeekID)
	for i := range s.Holes {
		dest = append(dest, &s.Holes[i])
	}
	dest = append(dest, &s.Front9, &s.Back9, &s.Total, &s.WeightedScore, &s.CardImageKey, &s.CreatedAt, &s.UpdatedAt)
	return row.Scan(dest...)
}

func (r *postgresScoreRepository) Create(ctx context.Context, exec SQLExecutor, score *models.Score) error {
	placeholders := make([]string, 0, 8+models.HolesPerRound)
	args := make([]interface{}, 0, 8+models.HolesPerRound)
	args = append(args, score.PlayerID, score.WeekID)
	for _, h := range score.Holes {
		args = append(args, h)
	}
	args = append(args, score.Front9, score.Back9, score.Total, score.WeightedScore, score.CardImageKey)
	for i := range args {
		placeholders = append(placeholders, "$"+strconv.Itoa(i+1))
	}

	query := fmt.Sprintf(`
		INSERT INTO scores (player_id, week_id, %s, front9, back9, total, weighted_score, card_image_key)
		VALUES (%s)
		RETURNING id, created_at, updated_at`,
		holeColumns(), strings.Join(placeholders, ", "))

	err := exec.QueryRowContext(ctx, query, args...).Scan(&score.ID, &score.CreatedAt, &score.UpdatedAt)
	return r.handleScoreError(err)
}

func (r *postgresScoreRepository) Update(ctx context.Context, exec SQLExecutor, score *models.Score) error {
	sets := make([]string, 0, 6+models.HolesPerRound)
	args := make([]interface{}, 0, 7+models.HolesPerRound)
	for i, h := range score.Holes {
		args = append(args, h)
		sets = append(sets, fmt.Sprintf("hole%d = $%d", i+1, len(args)))
	}
	for _, col := range []struct {
		name string
		val  interface{}
	}{
		{"front9", score.Front9},
		{"back9", score.Back9},
		{"total", score.Total},
		{"weighted_score", score.WeightedScore},
		{"card_image_key", score.CardImageKey},
	} {
		args = append(args, col.val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col.name, len(args)))
	}
	args = append(args, score.ID)

	query := fmt.Sprintf(`UPDATE scores SET %s, updated_at = NOW() WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return r.handleScoreError(err)
	}
	return checkAffectedRows(result, ErrScoreNotFound)
}

func (r *postgresScoreRepository) GetByID(ctx context.Context, id int) (*models.Score, error) {
	query := fmt.Sprintf(`SELECT %s FROM scores WHERE id = $1`, scoreColumns)

	score := &models.Score{}
	err := scanScore(r.db.QueryRowContext(ctx, query, id), score)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to scan score %d: %w", id, err)
	}
	return score, nil
}

func (r *postgresScoreRepository) GetAuthoritative(ctx context.Context, playerID, leagueID, weekNumber int, isChampionship bool) (*models.Score, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM scores s
		JOIN weeks w ON w.id = s.week_id
		WHERE s.player_id = $1 AND w.league_id = $2 AND w.week_number = $3 AND w.is_championship = $4
		ORDER BY s.updated_at DESC, s.id DESC
		LIMIT 1`, prefixScoreColumns("s"))

	score := &models.Score{}
	err := scanScore(r.db.QueryRowContext(ctx, query, playerID, leagueID, weekNumber, isChampionship), score)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to scan authoritative score for player %d week %d: %w", playerID, weekNumber, err)
	}
	return score, nil
}

func (r *postgresScoreRepository) ListAuthoritativeByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Score, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT ON (s.player_id) %s
		FROM scores s
		JOIN weeks w ON w.id = s.week_id
		WHERE w.league_id = $1 AND w.week_number = $2 AND w.is_championship = $3
		ORDER BY s.player_id, s.updated_at DESC, s.id DESC`, prefixScoreColumns("s"))

	rows, err := r.db.QueryContext(ctx, query, leagueID, weekNumber, isChampionship)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores for league %d week %d: %w", leagueID, weekNumber, err)
	}
	defer rows.Close()

	scores := make([]*models.Score, 0)
	for rows.Next() {
		var s models.Score
		if scanErr := scanScore(rows, &s); scanErr != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", scanErr)
		}
		scores = append(scores, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during score rows iteration: %w", err)
	}
	return scores, nil
}

func (r *postgresScoreRepository) ListSeasonAuthoritative(ctx context.Context, leagueID int) ([]*models.WeekScore, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT ON (s.player_id, w.week_number, w.is_championship) %s, w.week_number, w.is_championship
		FROM scores s
		JOIN weeks w ON w.id = s.week_id
		WHERE w.league_id = $1
		ORDER BY s.player_id, w.week_number, w.is_championship, s.updated_at DESC, s.id DESC`,
		prefixScoreColumns("s"))

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query season scores for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	scores := make([]*models.WeekScore, 0)
	for rows.Next() {
		var ws models.WeekScore
		dest := make([]interface{}, 0, 11+models.HolesPerRound)
		dest = append(dest, &ws.ID, &ws.PlayerID, &ws.WeekID)
		for i := range ws.Holes {
			dest = append(dest, &ws.Holes[i])
		}
		dest = append(dest,
			&ws.Front9, &ws.Back9, &ws.Total, &ws.WeightedScore, &ws.CardImageKey,
			&ws.CreatedAt, &ws.UpdatedAt, &ws.WeekNumber, &ws.IsChampionship,
		)
		if scanErr := rows.Scan(dest...); scanErr != nil {
			return nil, fmt.Errorf("failed to scan season score row: %w", scanErr)
		}
		scores = append(scores, &ws)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during season score rows iteration: %w", err)
	}
	return scores, nil
}

func (r *postgresScoreRepository) DeleteSuperseded(ctx context.Context, exec SQLExecutor, playerID, leagueID, weekNumber int, isChampionship bool, keepID int) (int64, error) {
	query := `
		DELETE FROM scores s
		USING weeks w
		WHERE w.id = s.week_id
		  AND s.player_id = $1 AND w.league_id = $2 AND w.week_number = $3 AND w.is_championship = $4
		  AND s.id <> $5`

	result, err := exec.ExecContext(ctx, query, playerID, leagueID, weekNumber, isChampionship, keepID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete superseded scores for player %d week %d: %w", playerID, weekNumber, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return deleted, nil
}

func (r *postgresScoreRepository) CountDistinctSubmitted(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (int, error) {
	query := `
		SELECT COUNT(DISTINCT s.player_id)
		FROM scores s
		JOIN weeks w ON w.id = s.week_id
		WHERE w.league_id = $1 AND w.week_number = $2 AND w.is_championship = $3 AND s.total IS NOT NULL`

	var count int
	err := r.db.QueryRowContext(ctx, query, leagueID, weekNumber, isChampionship).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count submitted scores for league %d week %d: %w", leagueID, weekNumber, err)
	}
	return count, nil
}

// UpdateWeightedBatch writes recomputed weighted scores in chunks so a
// large recompute never holds one long statement against the pool.
func (r *postgresScoreRepository) UpdateWeightedBatch(ctx context.Context, exec SQLExecutor, updates []WeightedUpdate) error {
	for start := 0; start < len(updates); start += weightedBatchSize {
		end := start + weightedBatchSize
		if end > len(updates) {
			end = len(updates)
		}
		chunk := updates[start:end]

		var values strings.Builder
		args := make([]interface{}, 0, len(chunk)*2)
		for i, u := range chunk {
			if i > 0 {
				values.WriteString(", ")
			}
			args = append(args, u.ScoreID, u.Weighted)
			values.WriteString(fmt.Sprintf("($%d::int, $%d::int)", len(args)-1, len(args)))
		}

		query := fmt.Sprintf(`
			UPDATE scores AS s
			SET weighted_score = v.weighted, updated_at = NOW()
			FROM (VALUES %s) AS v(id, weighted)
			WHERE s.id = v.id AND s.weighted_score IS DISTINCT FROM v.weighted`, values.String())

		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to update weighted scores batch: %w", err)
		}
	}
	return nil
}

func prefixScoreColumns(alias string) string {
	cols := strings.Split(scoreColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func (r *postgresScoreRepository) handleScoreError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "scores_player_id_fkey":
			return ErrScorePlayerInvalid
		case "scores_week_id_fkey":
			return ErrScoreWeekInvalid
		}
	}
	return err
}
