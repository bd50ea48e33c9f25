package services

// Broadcaster pushes an event to every live client watching a league.
// *live.Hub satisfies it; tests plug in a recorder.
type Broadcaster interface {
	BroadcastToLeague(leagueID int, eventType string, payload interface{})
}

// NopBroadcaster is used where no live hub is wired, e.g. one-shot
// command line recomputes.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastToLeague(int, string, interface{}) {}
