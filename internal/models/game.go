// internal/models/game.go
package models

import "time"

// Game is the authoritative record for one active game. It is created by
// promoting a lobby with at least two players and deleted once Round would
// exceed TotalRounds.
//
// Invariants: 1 <= Round <= TotalRounds, 0 <= DrawerIndex < len(Players), and
// Drawer is a denormalized copy of Players[DrawerIndex]. Guesses only ever
// holds entries for the current round. Scores never decrease.
type Game struct {
	Code        string   `json:"code"`
	Round       int      `json:"round"`
	TotalRounds int      `json:"totalRounds"`
	Players     []Player `json:"players"`
	DrawerIndex int      `json:"drawerIndex"`
	Drawer      Player   `json:"drawer"`
	CurrentWord string   `json:"currentWord"`
	Guesses     []Guess  `json:"guesses"`

	// RoundStartTime is a millisecond unix timestamp; RoundDuration is the
	// round length in milliseconds.
	RoundStartTime int64 `json:"roundStartTime"`
	RoundDuration  int64 `json:"roundDuration"`

	Version int64 `json:"version"`
}

// TimeLeft reports the remaining round time in milliseconds, floored at zero.
func (g *Game) TimeLeft(now time.Time) int64 {
	elapsed := now.UnixMilli() - g.RoundStartTime
	left := g.RoundDuration - elapsed
	if left < 0 {
		return 0
	}
	return left
}

// PlayerIndexByConn returns the index of the player holding connID, or -1.
func (g *Game) PlayerIndexByConn(connID string) int {
	for i, p := range g.Players {
		if p.ConnectionID == connID {
			return i
		}
	}
	return -1
}

// PlayerIndexByNickname returns the index of the named player, or -1.
func (g *Game) PlayerIndexByNickname(nickname string) int {
	for i, p := range g.Players {
		if p.Nickname == nickname {
			return i
		}
	}
	return -1
}
