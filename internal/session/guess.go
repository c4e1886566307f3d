// internal/session/guess.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/mlevan/scrawl/internal/models"
	"github.com/mlevan/scrawl/internal/room"
	"github.com/mlevan/scrawl/internal/store"
)

// normalizeGuess makes matching case- and surrounding-whitespace-insensitive.
func normalizeGuess(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SubmitGuess evaluates one guess. The guess is recorded and echoed to the
// room as a chat-visible event whether or not it is correct; a correct guess
// awards the fixed score delta, notifies the guesser privately, and after a
// short delay triggers the same round advancement the deadline timer would
// perform, superseding that timer.
func (c *Coordinator) SubmitGuess(ctx context.Context, code, nickname, text string, caller *room.Client) error {
	var (
		isCorrect bool
		fromRound int
		updated   models.Game
	)
	err := c.store.Update(ctx, gameKey(code), c.cfg.SessionTTL, func(cur []byte) ([]byte, error) {
		g, err := decodeGame(cur)
		if err != nil {
			return nil, err
		}
		if g.CurrentWord == "" {
			return nil, ErrNoActiveWord
		}
		idx := g.PlayerIndexByNickname(nickname)
		if idx < 0 {
			return nil, ErrPlayerNotFound
		}

		isCorrect = normalizeGuess(text) == normalizeGuess(g.CurrentWord)
		g.Guesses = append(g.Guesses, models.Guess{
			Nickname:  nickname,
			Text:      text,
			IsCorrect: isCorrect,
		})
		if isCorrect {
			g.Players[idx].Score += correctGuessScore
			if g.DrawerIndex == idx {
				g.Drawer = g.Players[idx]
			}
		}
		g.Version++
		fromRound = g.Round
		updated = g
		return json.Marshal(g)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrGameNotFound
		}
		return err
	}

	c.rooms.Broadcast(code, chatEvent(nickname, text, isCorrect))
	caller.Write(map[string]interface{}{"type": "guess-result", "isCorrect": isCorrect})

	if isCorrect {
		c.rooms.Broadcast(code, gameEvent("game-updated", updated))
		c.log.Infof("game %s: %q guessed the word in round %d", code, nickname, fromRound)
		// Give clients a beat to render the correct-guess announcement
		// before the round flips.
		time.AfterFunc(c.cfg.AdvanceDelay, func() {
			if err := c.advanceRound(context.Background(), code, fromRound); err != nil {
				c.log.Warnf("game %s: advance after correct guess failed: %v", code, err)
			}
		})
	}
	return nil
}

// RelayDrawing forwards stroke data to the rest of the room when, and only
// when, it comes from the connection currently recorded as drawer. Anything
// else is dropped silently; the coordinator never inspects the stroke shape.
func (c *Coordinator) RelayDrawing(ctx context.Context, code string, caller *room.Client, payload map[string]interface{}) {
	if !c.callerIsDrawer(ctx, code, caller) {
		return
	}
	msg := map[string]interface{}{"type": "drawing-update"}
	for k, v := range payload {
		if k == "type" || k == "lobbyCode" {
			continue
		}
		msg[k] = v
	}
	c.rooms.BroadcastExcept(code, caller.ID, msg)
}

// ClearCanvas relays a canvas reset under the same drawer-only rule.
func (c *Coordinator) ClearCanvas(ctx context.Context, code string, caller *room.Client) {
	if !c.callerIsDrawer(ctx, code, caller) {
		return
	}
	c.rooms.BroadcastExcept(code, caller.ID, map[string]interface{}{"type": "clear-canvas"})
}

func (c *Coordinator) callerIsDrawer(ctx context.Context, code string, caller *room.Client) bool {
	data, err := c.store.Get(ctx, gameKey(code))
	if err != nil {
		return false
	}
	g, err := decodeGame(data)
	if err != nil {
		return false
	}
	return g.Drawer.ConnectionID == caller.ID.String()
}

// SendChat broadcasts an ordinary chat message to the room.
func (c *Coordinator) SendChat(code, nickname, message string) {
	c.rooms.Broadcast(code, chatEvent(nickname, message, false))
}
