package handlers

import (
	"errors"
	"net/http"

	"github.com/robtee24/tee24-winterleague-sub000/services"
)

// maxCardImageBytes caps scorecard photo uploads at 10MB.
const maxCardImageBytes = 10 << 20

type ScoreHandler struct {
	scoreService services.ScoreService
}

func NewScoreHandler(scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// Submit accepts a scorecard for the week in the URL. The same endpoint
// handles first submissions and edits.
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	weekID, err := idParam(r, "weekID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.WeekID = weekID
	if input.PlayerID < 1 {
		badRequestResponse(w, r, errors.New("player_id is required"))
		return
	}

	score, err := h.scoreService.Submit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"score": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "scoreID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	score, err := h.scoreService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"score": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByWeek returns the authoritative scores for a week number; the
// ?championship=true flag selects the championship dimension.
func (h *ScoreHandler) ListByWeek(w http.ResponseWriter, r *http.Request) {
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

	scores, err := h.scoreService.ListByWeek(r.Context(), leagueID, weekNumber, championshipParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"scores": scores}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadCardImage attaches a scorecard photo to a score via multipart
// form data under the "card" field.
func (h *ScoreHandler) UploadCardImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "scoreID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCardImageBytes)
	if err := r.ParseMultipartForm(maxCardImageBytes); err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form"))
		return
	}

	file, header, err := r.FormFile("card")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing card file"))
		return
	}
	defer file.Close()

	score, err := h.scoreService.AttachCardImage(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"score": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
