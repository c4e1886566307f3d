// internal/session/tracker.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlevan/scrawl/internal/models"
	"github.com/mlevan/scrawl/internal/room"
	"github.com/mlevan/scrawl/internal/store"
)

// HandleDisconnect starts a grace-period timer for every lobby and game that
// lists the dropped connection. The timer re-reads membership when it fires,
// so a reconnect that rebinds the seat cancels the removal implicitly; no
// cancel token is kept.
func (c *Coordinator) HandleDisconnect(connID uuid.UUID) {
	ctx := context.Background()
	id := connID.String()

	lobbyKeys, err := c.store.ListKeys(ctx, "lobby:")
	if err != nil {
		c.log.Warnf("disconnect scan of lobbies failed: %v", err)
	}
	for _, key := range lobbyKeys {
		code := strings.TrimPrefix(key, "lobby:")
		data, err := c.store.Get(ctx, key)
		if err != nil {
			continue
		}
		lob, err := decodeLobby(data)
		if err != nil || lob.PlayerIndexByConn(id) < 0 {
			continue
		}
		c.log.Infof("lobby %s: connection %s dropped, holding seat for %s", code, id, c.cfg.GracePeriod)
		time.AfterFunc(c.cfg.GracePeriod, func() {
			c.removeFromLobby(context.Background(), code, id)
		})
	}

	gameKeys, err := c.store.ListKeys(ctx, "game:")
	if err != nil {
		c.log.Warnf("disconnect scan of games failed: %v", err)
	}
	for _, key := range gameKeys {
		code := strings.TrimPrefix(key, "game:")
		data, err := c.store.Get(ctx, key)
		if err != nil {
			continue
		}
		g, err := decodeGame(data)
		if err != nil || g.PlayerIndexByConn(id) < 0 {
			continue
		}
		c.log.Infof("game %s: connection %s dropped, holding seat for %s", code, id, c.cfg.GracePeriod)
		time.AfterFunc(c.cfg.GracePeriod, func() {
			c.removeFromGame(context.Background(), code, id)
		})
	}
}

// removeFromLobby drops the player still bound to connID, if any. An empty
// lobby is deleted outright; a departing host hands leadership to the first
// remaining player in join order.
func (c *Coordinator) removeFromLobby(ctx context.Context, code, connID string) {
	var (
		removed bool
		deleted bool
		updated models.Lobby
	)
	err := c.store.Update(ctx, lobbyKey(code), c.cfg.SessionTTL, func(cur []byte) ([]byte, error) {
		removed, deleted = false, false

		lob, err := decodeLobby(cur)
		if err != nil {
			return nil, err
		}
		idx := lob.PlayerIndexByConn(connID)
		if idx < 0 {
			return nil, store.ErrSkipUpdate // reconnected during the grace period
		}
		lob.Players = append(lob.Players[:idx], lob.Players[idx+1:]...)
		if len(lob.Players) == 0 {
			deleted = true
			return nil, nil
		}
		if lob.Host == connID {
			lob.Host = lob.Players[0].ConnectionID
		}
		lob.Version++
		removed = true
		updated = lob
		return json.Marshal(lob)
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.log.Warnf("lobby %s: removal of %s failed: %v", code, connID, err)
		return
	}

	switch {
	case deleted:
		c.log.Infof("lobby %s: last player left, record deleted", code)
	case removed:
		c.rooms.Broadcast(code, lobbyEvent("lobby-updated", updated))
		c.log.Infof("lobby %s: removed connection %s after grace period", code, connID)
	}
}

// removeFromGame mirrors removeFromLobby for game records. A departing drawer
// hands the brush to the first remaining player and drawerIndex resets to 0;
// round-robin order is not preserved across this transition.
func (c *Coordinator) removeFromGame(ctx context.Context, code, connID string) {
	var (
		removed bool
		deleted bool
		updated models.Game
	)
	err := c.store.Update(ctx, gameKey(code), c.cfg.SessionTTL, func(cur []byte) ([]byte, error) {
		removed, deleted = false, false

		g, err := decodeGame(cur)
		if err != nil {
			return nil, err
		}
		idx := g.PlayerIndexByConn(connID)
		if idx < 0 {
			return nil, store.ErrSkipUpdate
		}
		g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
		if len(g.Players) == 0 {
			deleted = true
			return nil, nil
		}
		if g.Drawer.ConnectionID == connID {
			g.DrawerIndex = 0
			g.Drawer = g.Players[0]
		} else if g.DrawerIndex > idx {
			g.DrawerIndex--
		}
		g.Version++
		removed = true
		updated = g
		return json.Marshal(g)
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.log.Warnf("game %s: removal of %s failed: %v", code, connID, err)
		return
	}

	switch {
	case deleted:
		c.StopScheduler(code)
		c.log.Infof("game %s: last player left, record deleted", code)
	case removed:
		c.rooms.Broadcast(code, gameEvent("game-updated", updated))
		c.log.Infof("game %s: removed connection %s after grace period", code, connID)
	}
}

// ReconnectPlayer rebinds a returning client's connection identity to its
// existing player record in the lobby and/or game for code, re-subscribes the
// caller to the room, answers with the full current snapshot (plus remaining
// time for a game), and broadcasts the refreshed snapshot to the room.
func (c *Coordinator) ReconnectPlayer(ctx context.Context, code, nickname string, caller *room.Client) error {
	connID := caller.ID.String()
	matched := false

	var lob models.Lobby
	lobbyFound := false
	err := c.store.Update(ctx, lobbyKey(code), c.cfg.SessionTTL, func(cur []byte) ([]byte, error) {
		lobbyFound = false

		l, err := decodeLobby(cur)
		if err != nil {
			return nil, err
		}
		idx := l.PlayerIndexByNickname(nickname)
		if idx < 0 {
			return nil, store.ErrSkipUpdate
		}
		if l.Host == l.Players[idx].ConnectionID {
			l.Host = connID
		}
		l.Players[idx].ConnectionID = connID
		l.Version++
		lob = l
		lobbyFound = true
		return json.Marshal(l)
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if lobbyFound {
		matched = true
		c.rooms.Join(code, caller)
		caller.Write(lobbyEvent("lobby-updated", lob))
		c.rooms.Broadcast(code, lobbyEvent("lobby-updated", lob))
	}

	var g models.Game
	gameFound := false
	err = c.store.Update(ctx, gameKey(code), c.cfg.SessionTTL, func(cur []byte) ([]byte, error) {
		gameFound = false

		gm, err := decodeGame(cur)
		if err != nil {
			return nil, err
		}
		idx := gm.PlayerIndexByNickname(nickname)
		if idx < 0 {
			return nil, store.ErrSkipUpdate
		}
		gm.Players[idx].ConnectionID = connID
		if gm.Drawer.Nickname == nickname {
			gm.Drawer.ConnectionID = connID
		}
		gm.Version++
		g = gm
		gameFound = true
		return json.Marshal(gm)
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if gameFound {
		matched = true
		c.rooms.Join(code, caller)
		caller.Write(gameEvent("game-fetched", g))
		caller.Write(timerEvent(g.TimeLeft(time.Now())))
		c.rooms.Broadcast(code, gameEvent("game-updated", g))
	}

	if !matched {
		return ErrLobbyNotFound
	}
	c.log.Infof("room %s: %q reconnected as %s", code, nickname, connID)
	return nil
}
