package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/robtee24/tee24-winterleague-sub000/live"
	"github.com/robtee24/tee24-winterleague-sub000/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub           *live.Hub
	leagueService services.LeagueService
	logger        *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, leagueService services.LeagueService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, leagueService: leagueService, logger: logger}
}

// ServeLeague upgrades the connection and joins it to the league room.
// The client then receives every score, handicap and match event for
// that league until it disconnects.
func (h *WebSocketHandler) ServeLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := idParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.leagueService.GetByID(r.Context(), leagueID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.Int("league_id", leagueID), slog.Any("error", err))
		return
	}

	h.hub.NewClient(conn, live.LeagueRoom(leagueID))
}
