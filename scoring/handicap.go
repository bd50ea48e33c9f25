// Package scoring holds the league's computation rules: raw and
// progressive handicaps, weighted scores, and best-ball match play.
// Everything here is pure; persistence and sequencing live in services.
package scoring

import (
	"math"

	"github.com/robtee24/tee24-winterleague-sub000/models"
)

const (
	// MaxRawHandicap caps a single round's strokes-back value so one
	// blown round cannot dominate a player's average.
	MaxRawHandicap = 25

	// MinRoundsForHandicap is how many raw handicaps a player needs
	// before any applied handicap is issued. Below this the player
	// plays to a handicap of zero.
	MinRoundsForHandicap = 3
)

// RoundHalfUp rounds to the nearest integer, halves rounding up.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RawHandicap converts a round total into the week's strokes-back value:
// the player's total relative to the round low, never negative, capped at
// MaxRawHandicap. The round-low player always gets 0.
func RawHandicap(total, roundLow int) int {
	diff := total - roundLow
	if diff < 0 {
		return 0
	}
	if diff > MaxRawHandicap {
		return MaxRawHandicap
	}
	return diff
}

// BaselineHandicap is the applied handicap for weeks 1-4: the rounded
// average of the first three weeks' raw handicaps. It reports false when
// the player has fewer than MinRoundsForHandicap raw values, in which
// case no baseline can be set yet.
func BaselineHandicap(raws []int) (int, bool) {
	if len(raws) < MinRoundsForHandicap {
		return 0, false
	}
	sum := 0
	for _, r := range raws[:MinRoundsForHandicap] {
		sum += r
	}
	return RoundHalfUp(float64(sum) / float64(MinRoundsForHandicap)), true
}

// ProgressiveHandicap is the applied handicap for week N (N >= 5): the
// rounded average of every prior week's raw handicap. This is a
// progressive average over the full history, not a sliding window. A
// player with fewer than MinRoundsForHandicap raw values gets 0;
// insufficient history degrades silently rather than erroring.
func ProgressiveHandicap(raws []int) int {
	if len(raws) < MinRoundsForHandicap {
		return 0
	}
	sum := 0
	for _, r := range raws {
		sum += r
	}
	return RoundHalfUp(float64(sum) / float64(len(raws)))
}

// WeightedScore is the comparable score for a round: the gross total
// minus the applied handicap for that week.
func WeightedScore(total, applied int) int {
	return total - applied
}

// HoleTotals derives front nine, back nine and total strokes from a hole
// array, counting only recorded holes. complete reports whether all 18
// holes are present, i.e. the totals came from a full card.
func HoleTotals(holes [models.HolesPerRound]*int) (front9, back9, total int, complete bool) {
	complete = true
	for i, h := range holes {
		if h == nil {
			complete = false
			continue
		}
		if i < models.HolesPerRound/2 {
			front9 += *h
		} else {
			back9 += *h
		}
	}
	total = front9 + back9
	return front9, back9, total, complete
}
