package handlers

import (
	"net/http"

	"github.com/robtee24/tee24-winterleague-sub000/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// SeasonStandings returns the regular season ranking by average weighted
// score, lowest first.
func (h *LeaderboardHandler) SeasonStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := idParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.leaderboardService.SeasonStandings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) WeekLeaderboard(w http.ResponseWriter, r *http.Request) {
	leagueID, err := idParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	weekNumber, err := idParam(r, "weekNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leaderboardService.WeekLeaderboard(r.Context(), leagueID, weekNumber, championshipParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) TeamStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := idParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.leaderboardService.TeamStandings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
