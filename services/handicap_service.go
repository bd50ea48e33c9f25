package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/robtee24/tee24-winterleague-sub000/live"
	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
	"github.com/robtee24/tee24-winterleague-sub000/scoring"
)

// HandicapService owns the recompute cascade. Recalculate is idempotent:
// it rebuilds every raw and applied handicap for the league from the
// authoritative scores and converges to the same rows no matter how many
// times or in what order it runs.
type HandicapService interface {
	// WeekComplete reports whether every rostered player has a submitted
	// total for the week number. Duplicate week rows are aggregated, so a
	// week split across two rows still reads as one week.
	WeekComplete(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (bool, error)
	Recalculate(ctx context.Context, leagueID int) error
	ListByLeague(ctx context.Context, leagueID int) ([]*models.WeekHandicap, error)
}

type handicapService struct {
	db        *sql.DB
	players   repositories.PlayerRepository
	weeks     repositories.WeekRepository
	scores    repositories.ScoreRepository
	handicaps repositories.HandicapRepository
	hub       Broadcaster
	logger    *slog.Logger
}

func NewHandicapService(
	db *sql.DB,
	players repositories.PlayerRepository,
	weeks repositories.WeekRepository,
	scores repositories.ScoreRepository,
	handicaps repositories.HandicapRepository,
	hub Broadcaster,
	logger *slog.Logger,
) HandicapService {
	return &handicapService{
		db:        db,
		players:   players,
		weeks:     weeks,
		scores:    scores,
		handicaps: handicaps,
		hub:       hub,
		logger:    logger,
	}
}

func (s *handicapService) WeekComplete(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (bool, error) {
	roster, err := s.players.CountByLeague(ctx, leagueID)
	if err != nil {
		return false, err
	}
	if roster == 0 {
		return false, nil
	}
	submitted, err := s.scores.CountDistinctSubmitted(ctx, leagueID, weekNumber, isChampionship)
	if err != nil {
		return false, err
	}
	return submitted >= roster, nil
}

func (s *handicapService) ListByLeague(ctx context.Context, leagueID int) ([]*models.WeekHandicap, error) {
	return s.handicaps.ListByLeague(ctx, leagueID)
}

// weekKey identifies a week by its coordinates rather than a row id, so
// duplicate week rows collapse into one logical week.
type weekKey struct {
	Number       int
	Championship bool
}

// Recalculate rebuilds the league's handicap state forward from week 1:
// raw handicaps from the authoritative totals and each week's round low,
// the baseline once week 3 is complete league-wide, the progressive
// average for week 5 on once the prior week is complete, and finally the
// weighted scores derived from whatever applied handicaps exist.
func (s *handicapService) Recalculate(ctx context.Context, leagueID int) error {
	players, err := s.players.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("recalculate league %d: %w", leagueID, err)
	}
	if len(players) == 0 {
		return nil
	}

	weeks, err := s.weeks.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("recalculate league %d: %w", leagueID, err)
	}
	canonical := make(map[weekKey]*models.Week, len(weeks))
	for _, w := range weeks {
		key := weekKey{w.WeekNumber, w.IsChampionship}
		cur := canonical[key]
		if cur == nil || w.CreatedAt.After(cur.CreatedAt) || (w.CreatedAt.Equal(cur.CreatedAt) && w.ID > cur.ID) {
			canonical[key] = w
		}
	}

	season, err := s.scores.ListSeasonAuthoritative(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("recalculate league %d: %w", leagueID, err)
	}

	byWeek := make(map[weekKey]map[int]*models.WeekScore)
	roundLow := make(map[weekKey]int)
	for _, ws := range season {
		key := weekKey{ws.WeekNumber, ws.IsChampionship}
		if byWeek[key] == nil {
			byWeek[key] = make(map[int]*models.WeekScore)
		}
		byWeek[key][ws.PlayerID] = ws
		if ws.Total != nil {
			if low, ok := roundLow[key]; !ok || *ws.Total < low {
				roundLow[key] = *ws.Total
			}
		}
	}

	// Raw handicaps for the regular season, per player per week number.
	raws := make(map[int]map[int]int)
	submitted := make(map[int]int)
	for key, weekScores := range byWeek {
		if key.Championship {
			continue
		}
		low := roundLow[key]
		for pid, ws := range weekScores {
			if ws.Total == nil {
				continue
			}
			submitted[key.Number]++
			if raws[pid] == nil {
				raws[pid] = make(map[int]int)
			}
			raws[pid][key.Number] = scoring.RawHandicap(*ws.Total, low)
		}
	}

	complete := func(weekNumber int) bool {
		return submitted[weekNumber] >= len(players)
	}
	baselineReady := complete(models.BaselineWeeks)

	var updates []repositories.WeightedUpdate

	for n := 1; n <= models.RegularSeasonWeeks; n++ {
		week := canonical[weekKey{n, false}]
		if week == nil {
			continue
		}
		weekScores := byWeek[weekKey{n, false}]
		for _, p := range players {
			var rawPtr *int
			if r, ok := raws[p.ID][n]; ok {
				rawPtr = intPtr(r)
			}
			applied, isBaseline := s.appliedFor(n, p.ID, raws, complete, baselineReady)
			if rawPtr == nil && applied == nil {
				continue
			}
			h := &models.Handicap{
				PlayerID:        p.ID,
				WeekID:          week.ID,
				RawHandicap:     rawPtr,
				AppliedHandicap: applied,
				IsBaseline:      isBaseline,
			}
			if err := s.handicaps.Upsert(ctx, s.db, h); err != nil {
				return fmt.Errorf("recalculate league %d week %d: %w", leagueID, n, err)
			}
			if applied != nil {
				if ws := weekScores[p.ID]; ws != nil && ws.Total != nil {
					updates = append(updates, repositories.WeightedUpdate{
						ScoreID:  ws.ID,
						Weighted: scoring.WeightedScore(*ws.Total, *applied),
					})
				}
			}
		}
	}

	// Championship rounds carry the handicap earned over the full regular
	// season, frozen once week 10 completes. Their own raw handicaps are
	// recorded for the record but never feed back into the averages.
	regularDone := complete(models.RegularSeasonWeeks)
	for n := models.RegularSeasonWeeks + 1; n <= models.RegularSeasonWeeks+models.ChampionshipWeeks; n++ {
		week := canonical[weekKey{n, true}]
		if week == nil {
			continue
		}
		key := weekKey{n, true}
		low := roundLow[key]
		for _, p := range players {
			ws := byWeek[key][p.ID]
			var rawPtr *int
			if ws != nil && ws.Total != nil {
				rawPtr = intPtr(scoring.RawHandicap(*ws.Total, low))
			}
			var applied *int
			if regularDone {
				applied = intPtr(scoring.ProgressiveHandicap(rawsThrough(raws[p.ID], models.RegularSeasonWeeks)))
			}
			if rawPtr == nil && applied == nil {
				continue
			}
			h := &models.Handicap{
				PlayerID:        p.ID,
				WeekID:          week.ID,
				RawHandicap:     rawPtr,
				AppliedHandicap: applied,
			}
			if err := s.handicaps.Upsert(ctx, s.db, h); err != nil {
				return fmt.Errorf("recalculate league %d championship week %d: %w", leagueID, n, err)
			}
			if applied != nil && ws != nil && ws.Total != nil {
				updates = append(updates, repositories.WeightedUpdate{
					ScoreID:  ws.ID,
					Weighted: scoring.WeightedScore(*ws.Total, *applied),
				})
			}
		}
	}

	if len(updates) > 0 {
		if err := s.scores.UpdateWeightedBatch(ctx, s.db, updates); err != nil {
			return fmt.Errorf("recalculate league %d: %w", leagueID, err)
		}
	}

	s.logger.Info("handicaps recalculated",
		slog.Int("league_id", leagueID),
		slog.Int("players", len(players)),
		slog.Int("weighted_updates", len(updates)),
		slog.Bool("baseline_set", baselineReady))
	s.hub.BroadcastToLeague(leagueID, live.EventHandicapsRecalculated, map[string]interface{}{
		"league_id":        leagueID,
		"weighted_updates": len(updates),
	})
	return nil
}

// appliedFor resolves the applied handicap for one player and regular
// season week, or nil when the progression rules do not allow a value
// yet. The second return flags baseline rows (weeks 1-3 once set).
func (s *handicapService) appliedFor(weekNumber, playerID int, raws map[int]map[int]int, complete func(int) bool, baselineReady bool) (*int, bool) {
	if weekNumber <= models.BaselineWeeks+1 {
		if !baselineReady {
			if weekNumber <= models.BaselineWeeks {
				// Played to zero until the baseline exists.
				return intPtr(0), false
			}
			return nil, false
		}
		first := rawsThrough(raws[playerID], models.BaselineWeeks)
		if b, ok := scoring.BaselineHandicap(first); ok {
			return intPtr(b), weekNumber <= models.BaselineWeeks
		}
		// Fewer than three rounds on record: plays to zero.
		return intPtr(0), false
	}

	// Week 5 on: progressive average, gated on the prior week so the
	// handicap is never computed against a partial week.
	if !complete(weekNumber - 1) {
		return nil, false
	}
	return intPtr(scoring.ProgressiveHandicap(rawsThrough(raws[playerID], weekNumber-1))), false
}

// rawsThrough collects a player's raw handicaps for weeks 1..n in week
// order, skipping weeks the player missed.
func rawsThrough(playerRaws map[int]int, n int) []int {
	out := make([]int, 0, n)
	for week := 1; week <= n; week++ {
		if r, ok := playerRaws[week]; ok {
			out = append(out, r)
		}
	}
	return out
}

func intPtr(v int) *int {
	return &v
}
