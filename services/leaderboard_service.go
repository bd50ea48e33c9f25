package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
)

type LeaderboardService interface {
	// SeasonStandings ranks players by average weighted score over the
	// regular season, lowest first.
	SeasonStandings(ctx context.Context, leagueID int) ([]*models.PlayerStanding, error)
	WeekLeaderboard(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (*models.WeekLeaderboard, error)
	// TeamStandings accumulates best-ball match results per team.
	TeamStandings(ctx context.Context, leagueID int) ([]*models.TeamStanding, error)
}

type leaderboardService struct {
	players   repositories.PlayerRepository
	scores    repositories.ScoreRepository
	handicaps repositories.HandicapRepository
	teams     repositories.TeamRepository
	matches   repositories.MatchRepository
}

func NewLeaderboardService(
	players repositories.PlayerRepository,
	scores repositories.ScoreRepository,
	handicaps repositories.HandicapRepository,
	teams repositories.TeamRepository,
	matches repositories.MatchRepository,
) LeaderboardService {
	return &leaderboardService{
		players:   players,
		scores:    scores,
		handicaps: handicaps,
		teams:     teams,
		matches:   matches,
	}
}

func (s *leaderboardService) SeasonStandings(ctx context.Context, leagueID int) ([]*models.PlayerStanding, error) {
	var (
		players   []*models.Player
		season    []*models.WeekScore
		handicaps []*models.WeekHandicap
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.players.ListByLeague(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		season, err = s.scores.ListSeasonAuthoritative(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		handicaps, err = s.handicaps.ListByLeague(gctx, leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byPlayer := make(map[int]*models.PlayerStanding, len(players))
	standings := make([]*models.PlayerStanding, 0, len(players))
	for _, p := range players {
		st := &models.PlayerStanding{
			PlayerID:   p.ID,
			PlayerName: p.FirstName + " " + p.LastName,
		}
		byPlayer[p.ID] = st
		standings = append(standings, st)
	}

	for _, ws := range season {
		if ws.IsChampionship || ws.Total == nil {
			continue
		}
		st := byPlayer[ws.PlayerID]
		if st == nil {
			continue
		}
		st.RoundsPlayed++
		st.GrossTotal += *ws.Total
		if ws.WeightedScore != nil {
			st.WeightedTotal += *ws.WeightedScore
		} else {
			st.WeightedTotal += *ws.Total
		}
	}

	// Current applied handicap: the latest regular season week carrying one.
	latest := make(map[int]int)
	for _, h := range handicaps {
		if h.IsChampionship || h.AppliedHandicap == nil {
			continue
		}
		st := byPlayer[h.PlayerID]
		if st == nil || h.WeekNumber < latest[h.PlayerID] {
			continue
		}
		latest[h.PlayerID] = h.WeekNumber
		st.CurrentApplied = *h.AppliedHandicap
	}

	for _, st := range standings {
		if st.RoundsPlayed > 0 {
			st.AvgWeighted = float64(st.WeightedTotal) / float64(st.RoundsPlayed)
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if (a.RoundsPlayed > 0) != (b.RoundsPlayed > 0) {
			return a.RoundsPlayed > 0
		}
		if a.AvgWeighted != b.AvgWeighted {
			return a.AvgWeighted < b.AvgWeighted
		}
		return a.PlayerName < b.PlayerName
	})
	return standings, nil
}

func (s *leaderboardService) WeekLeaderboard(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (*models.WeekLeaderboard, error) {
	var (
		players   []*models.Player
		scores    []*models.Score
		handicaps []*models.WeekHandicap
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.players.ListByLeague(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		scores, err = s.scores.ListAuthoritativeByWeek(gctx, leagueID, weekNumber, isChampionship)
		return err
	})
	g.Go(func() error {
		var err error
		handicaps, err = s.handicaps.ListByLeague(gctx, leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scoreByPlayer := make(map[int]*models.Score, len(scores))
	for _, sc := range scores {
		scoreByPlayer[sc.PlayerID] = sc
	}
	appliedByPlayer := make(map[int]*int)
	for _, h := range handicaps {
		if h.WeekNumber == weekNumber && h.IsChampionship == isChampionship {
			appliedByPlayer[h.PlayerID] = h.AppliedHandicap
		}
	}

	board := &models.WeekLeaderboard{
		WeekNumber:     weekNumber,
		IsChampionship: isChampionship,
		Rows:           make([]models.WeekLeaderRow, 0, len(players)),
	}
	submitted := 0
	for _, p := range players {
		row := models.WeekLeaderRow{
			PlayerID:   p.ID,
			PlayerName: p.FirstName + " " + p.LastName,
			Applied:    appliedByPlayer[p.ID],
		}
		if sc := scoreByPlayer[p.ID]; sc != nil {
			row.Total = sc.Total
			row.WeightedScore = sc.WeightedScore
			if sc.Total != nil {
				submitted++
			}
		}
		board.Rows = append(board.Rows, row)
	}
	board.Complete = len(players) > 0 && submitted >= len(players)

	sort.SliceStable(board.Rows, func(i, j int) bool {
		a, b := board.Rows[i], board.Rows[j]
		av, bv := rowRank(a), rowRank(b)
		if av != bv {
			return av < bv
		}
		return a.PlayerName < b.PlayerName
	})
	return board, nil
}

// rowRank orders a leaderboard row: weighted score first, bare total for
// rounds awaiting a handicap, no card last.
func rowRank(r models.WeekLeaderRow) int {
	switch {
	case r.WeightedScore != nil:
		return *r.WeightedScore
	case r.Total != nil:
		return *r.Total
	default:
		return int(^uint(0) >> 1)
	}
}

func (s *leaderboardService) TeamStandings(ctx context.Context, leagueID int) ([]*models.TeamStanding, error) {
	var (
		teams   []*models.Team
		matches []*models.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teams.ListByLeague(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matches.ListByLeague(gctx, leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byTeam := make(map[int]*models.TeamStanding, len(teams))
	standings := make([]*models.TeamStanding, 0, len(teams))
	for _, t := range teams {
		st := &models.TeamStanding{TeamID: t.ID, TeamName: t.Name}
		byTeam[t.ID] = st
		standings = append(standings, st)
	}

	for _, m := range matches {
		if m.Team2ID == nil {
			continue
		}
		// Unscored matches carry no points and no winner.
		if m.WinnerTeamID == nil && m.Team1Points == 0 && m.Team2Points == 0 {
			continue
		}
		record(byTeam[m.Team1ID], m.Team1Points, m.Team2Points, m.WinnerTeamID, m.Team1ID)
		record(byTeam[*m.Team2ID], m.Team2Points, m.Team1Points, m.WinnerTeamID, *m.Team2ID)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Ties != b.Ties {
			return a.Ties > b.Ties
		}
		diffA := a.PointsFor - a.PointsAgainst
		diffB := b.PointsFor - b.PointsAgainst
		if diffA != diffB {
			return diffA > diffB
		}
		return a.TeamName < b.TeamName
	})
	return standings, nil
}

func record(st *models.TeamStanding, pointsFor, pointsAgainst int, winnerID *int, teamID int) {
	if st == nil {
		return
	}
	st.MatchesPlayed++
	st.PointsFor += pointsFor
	st.PointsAgainst += pointsAgainst
	switch {
	case winnerID == nil:
		st.Ties++
	case *winnerID == teamID:
		st.Wins++
	default:
		st.Losses++
	}
}
