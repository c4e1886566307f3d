// internal/session/lobby.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/mlevan/scrawl/internal/models"
	"github.com/mlevan/scrawl/internal/room"
	"github.com/mlevan/scrawl/internal/store"
)

// CreateLobby generates a fresh room code, persists a one-player lobby with
// the caller as host, subscribes the caller to the room, and answers with
// lobby-created plus a room-wide lobby-updated snapshot.
func (c *Coordinator) CreateLobby(ctx context.Context, nickname string, caller *room.Client) (models.Lobby, error) {
	code, err := c.newRoomCode(ctx)
	if err != nil {
		return models.Lobby{}, err
	}

	connID := caller.ID.String()
	lob := models.Lobby{
		Code:    code,
		Players: []models.Player{{Nickname: nickname, ConnectionID: connID}},
		Host:    connID,
		Version: 1,
	}
	data, err := json.Marshal(lob)
	if err != nil {
		return models.Lobby{}, fmt.Errorf("encode lobby record: %w", err)
	}
	if err := c.store.Set(ctx, lobbyKey(code), data, c.cfg.SessionTTL); err != nil {
		return models.Lobby{}, err
	}

	c.rooms.Join(code, caller)
	caller.Write(lobbyEvent("lobby-created", lob))
	c.rooms.Broadcast(code, lobbyEvent("lobby-updated", lob))
	c.log.Infof("lobby %s created by %q", code, nickname)
	return lob, nil
}

// JoinLobby appends a player to an existing lobby. Nickname uniqueness is
// enforced within the room regardless of connection identity.
func (c *Coordinator) JoinLobby(ctx context.Context, code, nickname string, caller *room.Client) (models.Lobby, error) {
	var updated models.Lobby
	err := c.store.Update(ctx, lobbyKey(code), c.cfg.SessionTTL, func(cur []byte) ([]byte, error) {
		lob, err := decodeLobby(cur)
		if err != nil {
			return nil, err
		}
		if lob.PlayerIndexByNickname(nickname) >= 0 {
			return nil, ErrNicknameTaken
		}
		lob.Players = append(lob.Players, models.Player{
			Nickname:     nickname,
			ConnectionID: caller.ID.String(),
		})
		lob.Version++
		updated = lob
		return json.Marshal(lob)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Lobby{}, ErrLobbyNotFound
		}
		return models.Lobby{}, err
	}

	c.rooms.Join(code, caller)
	c.rooms.Broadcast(code, lobbyEvent("lobby-updated", updated))
	c.log.Infof("lobby %s: %q joined", code, nickname)
	return updated, nil
}

// GetLobby answers a read-only snapshot to the caller, provided the caller's
// connection is among the current players.
func (c *Coordinator) GetLobby(ctx context.Context, code string, caller *room.Client) (models.Lobby, error) {
	data, err := c.store.Get(ctx, lobbyKey(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Lobby{}, ErrLobbyNotFound
		}
		return models.Lobby{}, err
	}
	lob, err := decodeLobby(data)
	if err != nil {
		return models.Lobby{}, err
	}
	if lob.PlayerIndexByConn(caller.ID.String()) < 0 {
		return models.Lobby{}, ErrNotMember
	}
	caller.Write(lobbyEvent("lobby-updated", lob))
	return lob, nil
}

// StartGame promotes a lobby with at least two players into a game: random
// first drawer, round 1 of cfg.TotalRounds, zeroed scores, a fresh secret
// word, and the round clock started. The transition is one-shot; the lobby
// record is not consulted again.
func (c *Coordinator) StartGame(ctx context.Context, code string, caller *room.Client) (models.Game, error) {
	data, err := c.store.Get(ctx, lobbyKey(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Game{}, ErrLobbyNotFound
		}
		return models.Game{}, err
	}
	lob, err := decodeLobby(data)
	if err != nil {
		return models.Game{}, err
	}
	if len(lob.Players) < 2 {
		return models.Game{}, ErrInsufficientPlayers
	}

	players := make([]models.Player, len(lob.Players))
	copy(players, lob.Players)
	for i := range players {
		players[i].Score = 0
	}
	drawerIndex := rand.Intn(len(players))

	game := models.Game{
		Code:           code,
		Round:          1,
		TotalRounds:    c.cfg.TotalRounds,
		Players:        players,
		DrawerIndex:    drawerIndex,
		Drawer:         players[drawerIndex],
		CurrentWord:    c.words.Pick(),
		RoundStartTime: time.Now().UnixMilli(),
		RoundDuration:  c.cfg.RoundDuration.Milliseconds(),
		Version:        1,
	}
	encoded, err := json.Marshal(game)
	if err != nil {
		return models.Game{}, fmt.Errorf("encode game record: %w", err)
	}
	if err := c.store.Set(ctx, gameKey(code), encoded, c.cfg.SessionTTL); err != nil {
		return models.Game{}, err
	}

	c.rooms.Broadcast(code, gameEvent("game-started", game))
	c.startRound(code, game.Round, c.cfg.RoundDuration)
	c.log.Infof("game %s started: %d players, drawer %q", code, len(players), game.Drawer.Nickname)
	return game, nil
}

// GetGame answers the current game snapshot plus remaining time to a caller
// whose connection is among the listed players.
func (c *Coordinator) GetGame(ctx context.Context, code string, caller *room.Client) (models.Game, error) {
	data, err := c.store.Get(ctx, gameKey(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Game{}, ErrGameNotFound
		}
		return models.Game{}, err
	}
	g, err := decodeGame(data)
	if err != nil {
		return models.Game{}, err
	}
	if g.PlayerIndexByConn(caller.ID.String()) < 0 {
		return models.Game{}, ErrNotMember
	}
	caller.Write(gameEvent("game-fetched", g))
	caller.Write(timerEvent(g.TimeLeft(time.Now())))
	return g, nil
}
