package handlers

import (
	"net/http"

	"github.com/robtee24/tee24-winterleague-sub000/services"
)

type HandicapHandler struct {
	handicapService services.HandicapService
}

func NewHandicapHandler(handicapService services.HandicapService) *HandicapHandler {
	return &HandicapHandler{handicapService: handicapService}
}

// ListByLeague returns every stored handicap for the league, grouped by
// week, so a client can render the full progression table.
func (h *HandicapHandler) ListByLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := idParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	handicaps, err := h.handicapService.ListByLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"handicaps": handicaps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// WeekStatus reports whether a week is complete, i.e. every rostered
// player has a submitted total.
func (h *HandicapHandler) WeekStatus(w http.ResponseWriter, r *http.Request) {
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

	championship := championshipParam(r)
	complete, err := h.handicapService.WeekComplete(r.Context(), leagueID, weekNumber, championship)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := jsonResponse{
		"week_number":     weekNumber,
		"is_championship": championship,
		"complete":        complete,
	}
	if err := writeJSON(w, http.StatusOK, status, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Recalculate forces a full handicap rebuild for the league.
func (h *HandicapHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	leagueID, err := idParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.handicapService.Recalculate(r.Context(), leagueID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
