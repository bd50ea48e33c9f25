package services

import (
	"context"
	"log/slog"

	"github.com/robtee24/tee24-winterleague-sub000/models"
)

// RecomputeTask identifies the league and week a submission touched. The
// handicap recompute always covers the whole league; the week is only
// needed to rescore that week's matches.
type RecomputeTask struct {
	LeagueID       int
	WeekNumber     int
	IsChampionship bool
}

// RecomputeEnqueuer is the fire-and-forget side of the cascade, as seen
// by the score service.
type RecomputeEnqueuer interface {
	Enqueue(task RecomputeTask)
}

// Recomputer runs the recompute cascade off the request path. Submissions
// enqueue a task and return immediately; a single worker drains the queue
// so concurrent submissions never run the engine in parallel for the same
// process. Failed tasks are logged and dropped; the next submission or
// the nightly sweep reruns the idempotent engine and converges anyway.
type Recomputer struct {
	handicaps HandicapService
	matches   MatchService
	tasks     chan RecomputeTask
	logger    *slog.Logger
}

const recomputeQueueSize = 64

func NewRecomputer(handicaps HandicapService, matches MatchService, logger *slog.Logger) *Recomputer {
	return &Recomputer{
		handicaps: handicaps,
		matches:   matches,
		tasks:     make(chan RecomputeTask, recomputeQueueSize),
		logger:    logger,
	}
}

// Enqueue never blocks the caller. A full queue drops the task; the
// nightly sweep picks up anything missed.
func (r *Recomputer) Enqueue(task RecomputeTask) {
	select {
	case r.tasks <- task:
	default:
		r.logger.Warn("recompute queue full, dropping task",
			slog.Int("league_id", task.LeagueID),
			slog.Int("week_number", task.WeekNumber))
	}
}

// Run drains the queue until the context is cancelled. Call it in its
// own goroutine.
func (r *Recomputer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-r.tasks:
			r.process(ctx, task)
		}
	}
}

func (r *Recomputer) process(ctx context.Context, task RecomputeTask) {
	if err := r.handicaps.Recalculate(ctx, task.LeagueID); err != nil {
		r.logger.Error("handicap recompute failed",
			slog.Int("league_id", task.LeagueID), slog.Any("error", err))
		return
	}
	if err := r.matches.RecalculateWeek(ctx, task.LeagueID, task.WeekNumber, task.IsChampionship); err != nil {
		r.logger.Error("match recompute failed",
			slog.Int("league_id", task.LeagueID),
			slog.Int("week_number", task.WeekNumber),
			slog.Any("error", err))
	}
}

// RecomputeLeague runs the full cascade over every week of a league.
// The nightly sweep uses it to repair anything a dropped task or crashed
// worker left stale.
func (r *Recomputer) RecomputeLeague(ctx context.Context, leagueID int) error {
	if err := r.handicaps.Recalculate(ctx, leagueID); err != nil {
		return err
	}
	for n := 1; n <= models.RegularSeasonWeeks; n++ {
		if err := r.matches.RecalculateWeek(ctx, leagueID, n, false); err != nil {
			return err
		}
	}
	for n := models.RegularSeasonWeeks + 1; n <= models.RegularSeasonWeeks+models.ChampionshipWeeks; n++ {
		if err := r.matches.RecalculateWeek(ctx, leagueID, n, true); err != nil {
			return err
		}
	}
	return nil
}
