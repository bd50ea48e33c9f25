package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/robtee24/tee24-winterleague-sub000/live"
	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
	"github.com/robtee24/tee24-winterleague-sub000/scoring"
	"github.com/robtee24/tee24-winterleague-sub000/storage"
)

// SubmitScoreInput is a scorecard submission or edit. Holes carries 18
// stroke counts where zero means "not played"; zeros are normalized to
// nil before anything downstream sees them. Total is a manual fallback
// for cards entered without hole-by-hole data.
type SubmitScoreInput struct {
	PlayerID int   `json:"player_id"`
	WeekID   int   `json:"week_id"`
	Holes    []int `json:"holes,omitempty"`
	Total    *int  `json:"total,omitempty"`
}

type ScoreService interface {
	// Submit records or replaces a player's round for a week. Duplicate
	// rows for the same week number are reconciled down to one, and the
	// recompute cascade is kicked off in the background.
	Submit(ctx context.Context, input SubmitScoreInput) (*models.Score, error)
	GetByID(ctx context.Context, id int) (*models.Score, error)
	ListByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Score, error)
	// AttachCardImage stores a photo of the paper scorecard and links it
	// to the score row.
	AttachCardImage(ctx context.Context, scoreID int, contentType string, body io.Reader) (*models.Score, error)
}

type scoreService struct {
	db         *sql.DB
	scores     repositories.ScoreRepository
	players    repositories.PlayerRepository
	weeks      repositories.WeekRepository
	leagues    repositories.LeagueRepository
	uploader   storage.FileUploader
	hub        Broadcaster
	recomputes RecomputeEnqueuer
	logger     *slog.Logger
}

func NewScoreService(
	db *sql.DB,
	scores repositories.ScoreRepository,
	players repositories.PlayerRepository,
	weeks repositories.WeekRepository,
	leagues repositories.LeagueRepository,
	uploader storage.FileUploader,
	hub Broadcaster,
	recomputes RecomputeEnqueuer,
	logger *slog.Logger,
) ScoreService {
	return &scoreService{
		db:         db,
		scores:     scores,
		players:    players,
		weeks:      weeks,
		leagues:    leagues,
		uploader:   uploader,
		hub:        hub,
		recomputes: recomputes,
		logger:     logger,
	}
}

func (s *scoreService) Submit(ctx context.Context, input SubmitScoreInput) (*models.Score, error) {
	week, err := s.weeks.GetByID(ctx, input.WeekID)
	if err != nil {
		if errors.Is(err, repositories.ErrWeekNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, err
	}
	league, err := s.leagues.GetByID(ctx, week.LeagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	if !league.IsActive {
		return nil, ErrLeagueInactive
	}

	player, err := s.players.GetByID(ctx, input.PlayerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if player.LeagueID != week.LeagueID {
		return nil, ErrPlayerNotInLeague
	}

	// Duplicate week rows share a week number; every write lands on the
	// canonical (newest) row so the engine only ever reads one.
	week, err = s.weeks.GetCanonicalByNumber(ctx, week.LeagueID, week.WeekNumber, week.IsChampionship)
	if err != nil {
		if errors.Is(err, repositories.ErrWeekNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, err
	}

	holes, err := normalizeHoles(input.Holes)
	if err != nil {
		return nil, err
	}

	score := &models.Score{
		PlayerID: player.ID,
		WeekID:   week.ID,
		Holes:    holes,
	}
	if score.HasHoleData() {
		front9, back9, total, _ := scoring.HoleTotals(holes)
		score.Front9 = intPtr(front9)
		score.Back9 = intPtr(back9)
		score.Total = intPtr(total)
	} else if input.Total != nil {
		if *input.Total <= 0 {
			return nil, ErrScorecardInvalid
		}
		score.Total = input.Total
	} else {
		return nil, ErrScorecardEmpty
	}

	existing, err := s.scores.GetAuthoritative(ctx, player.ID, week.LeagueID, week.WeekNumber, week.IsChampionship)
	switch {
	case err == nil:
		// Edit: overwrite the authoritative row in place. The weighted
		// score is cleared until the cascade recomputes it.
		score.ID = existing.ID
		score.WeekID = existing.WeekID
		score.CardImageKey = existing.CardImageKey
		if err := s.scores.Update(ctx, s.db, score); err != nil {
			return nil, err
		}
	case errors.Is(err, repositories.ErrScoreNotFound):
		if err := s.scores.Create(ctx, s.db, score); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	// Collapse any duplicate rows for the same week number down to the
	// one we just wrote.
	deleted, err := s.scores.DeleteSuperseded(ctx, s.db, player.ID, week.LeagueID, week.WeekNumber, week.IsChampionship, score.ID)
	if err != nil {
		return nil, err
	}
	if deleted > 0 {
		s.logger.Warn("reconciled duplicate score rows",
			slog.Int("player_id", player.ID),
			slog.Int("week_number", week.WeekNumber),
			slog.Int64("deleted", deleted))
	}

	s.hub.BroadcastToLeague(week.LeagueID, live.EventScoreSubmitted, map[string]interface{}{
		"score_id":    score.ID,
		"player_id":   player.ID,
		"week_number": week.WeekNumber,
		"total":       score.Total,
	})
	s.recomputes.Enqueue(RecomputeTask{
		LeagueID:       week.LeagueID,
		WeekNumber:     week.WeekNumber,
		IsChampionship: week.IsChampionship,
	})
	return score, nil
}

func (s *scoreService) GetByID(ctx context.Context, id int) (*models.Score, error) {
	score, err := s.scores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrScoreNotFound) {
			return nil, ErrScoreNotFound
		}
		return nil, err
	}
	return score, nil
}

func (s *scoreService) ListByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Score, error) {
	return s.scores.ListAuthoritativeByWeek(ctx, leagueID, weekNumber, isChampionship)
}

var cardImageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

func (s *scoreService) AttachCardImage(ctx context.Context, scoreID int, contentType string, body io.Reader) (*models.Score, error) {
	ext, ok := cardImageExtensions[contentType]
	if !ok {
		return nil, ErrCardImageInvalid
	}

	score, err := s.GetByID(ctx, scoreID)
	if err != nil {
		return nil, err
	}
	week, err := s.weeks.GetByID(ctx, score.WeekID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("scorecards/league_%d/week_%d/player_%d_score_%d%s",
		week.LeagueID, week.WeekNumber, score.PlayerID, score.ID, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload card image for score %d: %w", scoreID, err)
	}

	if score.CardImageKey != nil && *score.CardImageKey != result.Key {
		if delErr := s.uploader.Delete(ctx, *score.CardImageKey); delErr != nil {
			s.logger.Warn("failed to delete replaced card image",
				slog.String("key", *score.CardImageKey), slog.Any("error", delErr))
		}
	}

	score.CardImageKey = &result.Key
	if err := s.scores.Update(ctx, s.db, score); err != nil {
		return nil, err
	}
	return score, nil
}

// normalizeHoles validates a submitted hole array and converts it to the
// internal representation: zero (not played) becomes nil. An empty slice
// means the card was entered as a bare total.
func normalizeHoles(in []int) ([models.HolesPerRound]*int, error) {
	var holes [models.HolesPerRound]*int
	if len(in) == 0 {
		return holes, nil
	}
	if len(in) != models.HolesPerRound {
		return holes, ErrScorecardInvalid
	}
	for i, strokes := range in {
		if strokes < 0 {
			return holes, ErrScorecardInvalid
		}
		if strokes > 0 {
			holes[i] = intPtr(strokes)
		}
	}
	return holes, nil
}
