package scoring

import "github.com/robtee24/tee24-winterleague-sub000/models"

// Side identifies the winner of a hole or a match.
type Side int

const (
	SideNone Side = iota
	SideTeam1
	SideTeam2
)

// TeamCards carries a team's two scorecards for one week. Either card may
// be nil (no score row) or present without hole-by-hole data.
type TeamCards struct {
	Card1 *models.Score
	Card2 *models.Score
}

// qualifying returns the cards that actually carry hole data. If only one
// player turned in a card, that card fills both slots and best ball
// degrades to that player's round.
func (t TeamCards) qualifying() (a, b *models.Score, ok bool) {
	c1, c2 := t.Card1, t.Card2
	if c1 != nil && !c1.HasHoleData() {
		c1 = nil
	}
	if c2 != nil && !c2.HasHoleData() {
		c2 = nil
	}
	switch {
	case c1 != nil && c2 != nil:
		return c1, c2, true
	case c1 != nil:
		return c1, c1, true
	case c2 != nil:
		return c2, c2, true
	default:
		return nil, nil, false
	}
}

// holeStroke extracts a valid stroke count for one hole. Zero is "no
// data", not a real score; the source data cannot distinguish the two.
func holeStroke(card *models.Score, hole int) (int, bool) {
	h := card.Holes[hole]
	if h == nil || *h <= 0 {
		return 0, false
	}
	return *h, true
}

// teamBall is the team's best ball on a hole: the lower of the two
// players' valid strokes. ok is false when neither card has a valid
// stroke for the hole.
func teamBall(a, b *models.Score, hole int) (int, bool) {
	sa, okA := holeStroke(a, hole)
	sb, okB := holeStroke(b, hole)
	switch {
	case okA && okB:
		if sb < sa {
			return sb, true
		}
		return sa, true
	case okA:
		return sa, true
	case okB:
		return sb, true
	default:
		return 0, false
	}
}

// MatchResult is the outcome of a scored best-ball match.
type MatchResult struct {
	Team1Points int
	Team2Points int
	Winner      Side
}

// ScoreBestBallMatch plays two teams' cards against each other hole by
// hole. Each hole is worth one point to the team with the lower best
// ball; halved holes award nothing and do not carry over. Holes where
// either team has no valid stroke are skipped entirely.
//
// It reports false when either team has no hole-by-hole data at all; the
// match is then left in its prior state until data arrives.
func ScoreBestBallMatch(team1, team2 TeamCards) (MatchResult, bool) {
	a1, b1, ok1 := team1.qualifying()
	a2, b2, ok2 := team2.qualifying()
	if !ok1 || !ok2 {
		return MatchResult{}, false
	}

	var res MatchResult
	for hole := 0; hole < models.HolesPerRound; hole++ {
		ball1, okBall1 := teamBall(a1, b1, hole)
		ball2, okBall2 := teamBall(a2, b2, hole)
		if !okBall1 || !okBall2 {
			continue
		}
		switch {
		case ball1 < ball2:
			res.Team1Points++
		case ball2 < ball1:
			res.Team2Points++
		}
	}

	switch {
	case res.Team1Points > res.Team2Points:
		res.Winner = SideTeam1
	case res.Team2Points > res.Team1Points:
		res.Winner = SideTeam2
	default:
		res.Winner = SideNone
	}
	return res, true
}
