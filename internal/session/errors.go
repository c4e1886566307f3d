// internal/session/errors.go
package session

import "errors"

// Client-visible failures. Each is recovered locally: the handler emits a
// single lobby-error to the originating caller and the room carries on.
var (
	ErrLobbyNotFound       = errors.New("lobby not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrNicknameTaken       = errors.New("nickname already taken")
	ErrInsufficientPlayers = errors.New("at least 2 players required to start")
	ErrNoActiveWord        = errors.New("no active word for this round")
	ErrPlayerNotFound      = errors.New("player is not part of this game")
	ErrNotMember           = errors.New("you are not a member of this room")
)
