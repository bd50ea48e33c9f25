package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robtee24/tee24-winterleague-sub000/live"
	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// handicapFixture drives the recompute engine against an in-memory
// league: week rows exist up front (as league creation guarantees) and
// scores are added per test. Upserted handicaps and weighted updates are
// recorded for assertions.
type handicapFixture struct {
	players []*models.Player
	weeks   []*models.Week
	season  []*models.WeekScore

	upserts  map[[2]int]models.Handicap // (player id, week id)
	weighted map[int]int                // score id
	hub      *fakeBroadcaster
	svc      HandicapService
}

const fixtureLeagueID = 1

// weekRowID gives every fixture week a stable row id derived from its
// number; championship weeks share the numbering (11, 12).
func weekRowID(weekNumber int) int {
	return 100 + weekNumber
}

func newHandicapFixture(playerCount int) *handicapFixture {
	f := &handicapFixture{
		upserts:  make(map[[2]int]models.Handicap),
		weighted: make(map[int]int),
		hub:      &fakeBroadcaster{},
	}
	for i := 1; i <= playerCount; i++ {
		f.players = append(f.players, &models.Player{ID: i, LeagueID: fixtureLeagueID})
	}
	for n := 1; n <= models.RegularSeasonWeeks+models.ChampionshipWeeks; n++ {
		f.weeks = append(f.weeks, &models.Week{
			ID:             weekRowID(n),
			LeagueID:       fixtureLeagueID,
			WeekNumber:     n,
			IsChampionship: n > models.RegularSeasonWeeks,
		})
	}

	players := &fakePlayerRepo{
		listByLeagueFunc: func(context.Context, int) ([]*models.Player, error) {
			return f.players, nil
		},
	}
	weeks := &fakeWeekRepo{
		listByLeagueFunc: func(context.Context, int) ([]*models.Week, error) {
			return f.weeks, nil
		},
	}
	scores := &fakeScoreRepo{
		listSeasonFunc: func(context.Context, int) ([]*models.WeekScore, error) {
			return f.season, nil
		},
		updateWeightedBatchFunc: func(_ context.Context, _ repositories.SQLExecutor, updates []repositories.WeightedUpdate) error {
			for _, u := range updates {
				f.weighted[u.ScoreID] = u.Weighted
			}
			return nil
		},
	}
	handicaps := &fakeHandicapRepo{
		upsertFunc: func(_ context.Context, _ repositories.SQLExecutor, h *models.Handicap) error {
			f.upserts[[2]int{h.PlayerID, h.WeekID}] = *h
			return nil
		},
	}

	f.svc = NewHandicapService(nil, players, weeks, scores, handicaps, f.hub, testLogger())
	return f
}

func (f *handicapFixture) addScore(scoreID, playerID, weekNumber, total int) {
	f.season = append(f.season, &models.WeekScore{
		Score: models.Score{
			ID:       scoreID,
			PlayerID: playerID,
			WeekID:   weekRowID(weekNumber),
			Total:    intPtr(total),
		},
		WeekNumber:     weekNumber,
		IsChampionship: weekNumber > models.RegularSeasonWeeks,
	})
}

func (f *handicapFixture) handicap(playerID, weekNumber int) (models.Handicap, bool) {
	h, ok := f.upserts[[2]int{playerID, weekRowID(weekNumber)}]
	return h, ok
}

// seedBaselineWeeks fills weeks 1-3 for three players:
//
//	week 1: A 72 (low), B 80, C 90  -> raws 0, 8, 18
//	week 2: A 75, B 72 (low), C 85  -> raws 3, 0, 13
//	week 3: A 80, B 74, C 72 (low)  -> raws 8, 2, 0
//
// Baselines: A round(11/3)=4, B round(10/3)=3, C round(31/3)=10.
func seedBaselineWeeks(f *handicapFixture) {
	f.addScore(11, 1, 1, 72)
	f.addScore(12, 2, 1, 80)
	f.addScore(13, 3, 1, 90)
	f.addScore(21, 1, 2, 75)
	f.addScore(22, 2, 2, 72)
	f.addScore(23, 3, 2, 85)
	f.addScore(31, 1, 3, 80)
	f.addScore(32, 2, 3, 74)
	f.addScore(33, 3, 3, 72)
}

func TestRecalculate_BaselineAfterWeekThree(t *testing.T) {
	f := newHandicapFixture(3)
	seedBaselineWeeks(f)

	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))

	wantBaseline := map[int]int{1: 4, 2: 3, 3: 10}
	for playerID, want := range wantBaseline {
		for week := 1; week <= 3; week++ {
			h, ok := f.handicap(playerID, week)
			require.True(t, ok, "player %d week %d missing", playerID, week)
			require.NotNil(t, h.AppliedHandicap)
			assert.Equal(t, want, *h.AppliedHandicap, "player %d week %d", playerID, week)
			assert.True(t, h.IsBaseline, "player %d week %d", playerID, week)
		}
		// The baseline also covers week 4, but week 4 is not a baseline row.
		h, ok := f.handicap(playerID, 4)
		require.True(t, ok)
		require.NotNil(t, h.AppliedHandicap)
		assert.Equal(t, want, *h.AppliedHandicap)
		assert.False(t, h.IsBaseline)
	}

	// Raw handicaps are total minus the week's round low.
	h, _ := f.handicap(3, 1)
	require.NotNil(t, h.RawHandicap)
	assert.Equal(t, 18, *h.RawHandicap)

	// Weighted = total - applied for every submitted round.
	assert.Equal(t, map[int]int{
		11: 68, 21: 71, 31: 76,
		12: 77, 22: 69, 32: 71,
		13: 80, 23: 75, 33: 62,
	}, f.weighted)

	events := f.hub.eventsOfType(live.EventHandicapsRecalculated)
	assert.Len(t, events, 1)
}

func TestRecalculate_GateHoldsUntilWeekThreeCompletes(t *testing.T) {
	f := newHandicapFixture(3)
	f.addScore(11, 1, 1, 72)
	f.addScore(12, 2, 1, 80)
	f.addScore(13, 3, 1, 90)
	f.addScore(21, 1, 2, 75)
	f.addScore(22, 2, 2, 72)
	f.addScore(23, 3, 2, 85)
	f.addScore(31, 1, 3, 80)
	f.addScore(32, 2, 3, 74)
	// Player 3 has not submitted week 3 yet.

	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))

	// Everyone plays to zero until the baseline trigger fires.
	for playerID := 1; playerID <= 3; playerID++ {
		for week := 1; week <= 3; week++ {
			h, ok := f.handicap(playerID, week)
			require.True(t, ok)
			require.NotNil(t, h.AppliedHandicap)
			assert.Equal(t, 0, *h.AppliedHandicap)
			assert.False(t, h.IsBaseline)
		}
	}
	// Week 4 has no applied handicap yet: no raw either, so no row at all.
	_, ok := f.handicap(1, 4)
	assert.False(t, ok)

	// The missing card arrives; the gate flips and the baseline appears.
	f.addScore(33, 3, 3, 72)
	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))

	h, ok := f.handicap(1, 1)
	require.True(t, ok)
	require.NotNil(t, h.AppliedHandicap)
	assert.Equal(t, 4, *h.AppliedHandicap)
	assert.True(t, h.IsBaseline)
}

func TestRecalculate_Idempotent(t *testing.T) {
	f := newHandicapFixture(3)
	seedBaselineWeeks(f)
	f.addScore(41, 1, 4, 76)
	f.addScore(42, 2, 4, 73)
	f.addScore(43, 3, 4, 78)

	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))

	firstUpserts := make(map[[2]int]models.Handicap, len(f.upserts))
	for k, v := range f.upserts {
		firstUpserts[k] = v
	}
	firstWeighted := make(map[int]int, len(f.weighted))
	for k, v := range f.weighted {
		firstWeighted[k] = v
	}

	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))
	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))

	assert.Equal(t, firstUpserts, f.upserts)
	assert.Equal(t, firstWeighted, f.weighted)
}

func TestRecalculate_ProgressiveGatedOnPriorWeek(t *testing.T) {
	f := newHandicapFixture(3)
	seedBaselineWeeks(f)
	// Week 4: A 76, B 73 (low), C 78 -> raws 3, 0, 5.
	f.addScore(41, 1, 4, 76)
	f.addScore(42, 2, 4, 73)
	f.addScore(43, 3, 4, 78)

	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))

	// Week 5 applied = round(mean(raws weeks 1-4)), known before any
	// week 5 card exists.
	wantWeek5 := map[int]int{
		1: 4, // (0+3+8+3)/4 = 3.5 rounds up
		2: 3, // (8+0+2+0)/4 = 2.5 rounds up
		3: 9, // (18+13+0+5)/4 = 9
	}
	for playerID, want := range wantWeek5 {
		h, ok := f.handicap(playerID, 5)
		require.True(t, ok, "player %d week 5 missing", playerID)
		assert.Nil(t, h.RawHandicap)
		require.NotNil(t, h.AppliedHandicap)
		assert.Equal(t, want, *h.AppliedHandicap, "player %d", playerID)
	}

	// Week 5 stays partial, so week 6 must not be computed against it.
	f.addScore(51, 1, 5, 80)
	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))

	_, ok := f.handicap(1, 6)
	assert.False(t, ok, "week 6 handicap computed against a partial week 5")
}

func TestRecalculate_FewerThanThreeRoundsPlaysToZero(t *testing.T) {
	f := newHandicapFixture(3)
	// Player 3 missed week 1 entirely but week 3 still completes because
	// completion only counts the week being gated.
	f.addScore(11, 1, 1, 72)
	f.addScore(12, 2, 1, 80)
	f.addScore(21, 1, 2, 75)
	f.addScore(22, 2, 2, 72)
	f.addScore(23, 3, 2, 85)
	f.addScore(31, 1, 3, 80)
	f.addScore(32, 2, 3, 74)
	f.addScore(33, 3, 3, 72)

	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))

	h, ok := f.handicap(3, 4)
	require.True(t, ok)
	require.NotNil(t, h.AppliedHandicap)
	assert.Equal(t, 0, *h.AppliedHandicap)
}

func TestRecalculate_ChampionshipCarriesSeasonHandicap(t *testing.T) {
	f := newHandicapFixture(2)
	// Player 1 shoots the low round every week; player 2 trails by 10.
	scoreID := 0
	for week := 1; week <= models.RegularSeasonWeeks; week++ {
		scoreID++
		f.addScore(scoreID, 1, week, 72)
		scoreID++
		f.addScore(scoreID, 2, week, 82)
	}
	// Championship week 11: player 2 outscores their handicap.
	f.addScore(111, 1, 11, 75)
	f.addScore(112, 2, 11, 80)

	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))

	h1, ok := f.handicap(1, 11)
	require.True(t, ok)
	require.NotNil(t, h1.AppliedHandicap)
	assert.Equal(t, 0, *h1.AppliedHandicap)
	require.NotNil(t, h1.RawHandicap)
	assert.Equal(t, 0, *h1.RawHandicap)

	h2, ok := f.handicap(2, 11)
	require.True(t, ok)
	require.NotNil(t, h2.AppliedHandicap)
	assert.Equal(t, 10, *h2.AppliedHandicap)
	require.NotNil(t, h2.RawHandicap)
	assert.Equal(t, 5, *h2.RawHandicap)

	// Weighted championship scores use the carried handicap.
	assert.Equal(t, 75, f.weighted[111])
	assert.Equal(t, 70, f.weighted[112])
}

func TestRecalculate_EmptyRosterIsANoop(t *testing.T) {
	f := newHandicapFixture(0)
	require.NoError(t, f.svc.Recalculate(context.Background(), fixtureLeagueID))
	assert.Empty(t, f.upserts)
	assert.Empty(t, f.hub.events)
}

func TestWeekComplete(t *testing.T) {
	players := &fakePlayerRepo{
		countByLeagueFunc: func(context.Context, int) (int, error) { return 3, nil },
	}
	submitted := 2
	scores := &fakeScoreRepo{
		countDistinctFunc: func(context.Context, int, int, bool) (int, error) { return submitted, nil },
	}
	svc := NewHandicapService(nil, players, &fakeWeekRepo{}, scores, &fakeHandicapRepo{}, &fakeBroadcaster{}, testLogger())

	complete, err := svc.WeekComplete(context.Background(), 1, 3, false)
	require.NoError(t, err)
	assert.False(t, complete)

	submitted = 3
	complete, err = svc.WeekComplete(context.Background(), 1, 3, false)
	require.NoError(t, err)
	assert.True(t, complete)
}
