// internal/models/lobby.go
package models

// Lobby is the pre-game grouping of players for one room code. The player
// slice preserves join order; Host always holds the connection ID of a player
// currently in Players.
type Lobby struct {
	Code    string   `json:"code"`
	Players []Player `json:"players"`
	Host    string   `json:"host"`

	// Version counts writes to this record and backs the store's optimistic
	// update loop.
	Version int64 `json:"version"`
}

// PlayerIndexByConn returns the index of the player holding connID, or -1.
func (l *Lobby) PlayerIndexByConn(connID string) int {
	for i, p := range l.Players {
		if p.ConnectionID == connID {
			return i
		}
	}
	return -1
}

// PlayerIndexByNickname returns the index of the named player, or -1.
func (l *Lobby) PlayerIndexByNickname(nickname string) int {
	for i, p := range l.Players {
		if p.Nickname == nickname {
			return i
		}
	}
	return -1
}
