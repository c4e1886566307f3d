// internal/session/codes.go
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/mlevan/scrawl/internal/store"
)

// Room codes are short and human-typeable; the alphabet drops the easily
// confused 0/O/1/I.
const (
	roomCodeLength   = 6
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeAttempts = 5
)

func randomRoomCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(b)
}

// newRoomCode generates a code unique among currently live lobby and game
// keys. Collisions against long-expired rooms are accepted.
func (c *Coordinator) newRoomCode(ctx context.Context) (string, error) {
	for i := 0; i < roomCodeAttempts; i++ {
		code := randomRoomCode()
		if _, err := c.store.Get(ctx, lobbyKey(code)); !errors.Is(err, store.ErrNotFound) {
			continue
		}
		if _, err := c.store.Get(ctx, gameKey(code)); !errors.Is(err, store.ErrNotFound) {
			continue
		}
		return code, nil
	}
	return "", fmt.Errorf("could not generate a free room code in %d attempts", roomCodeAttempts)
}
