// internal/models/player.go
package models

// Player is one seat in a lobby or game. ConnectionID is the opaque handle of
// the player's current WebSocket connection; it is rebound on reconnect and is
// never shared by two live players in the same room.
type Player struct {
	Nickname     string `json:"nickname"`
	ConnectionID string `json:"connectionId"`
	Score        int    `json:"score"`
}

// Guess is one guess submitted during the current round. Entries are
// append-only and cleared at each round boundary.
type Guess struct {
	Nickname  string `json:"nickname"`
	Text      string `json:"guess"`
	IsCorrect bool   `json:"isCorrect"`
}
