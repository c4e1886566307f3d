// internal/session/coordinator.go

// Package session implements the lifecycle coordinator for draw-and-guess
// rooms: lobby formation, the game-round state machine, round timing, guess
// evaluation, and disconnect/reconnect handling. All shared state lives in
// the record store; the coordinator itself only owns process-local timers.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mlevan/scrawl/internal/config"
	"github.com/mlevan/scrawl/internal/models"
	"github.com/mlevan/scrawl/internal/room"
	"github.com/mlevan/scrawl/internal/store"
)

// correctGuessScore is the fixed score delta awarded per correct guess.
const correctGuessScore = 100

// Coordinator is the single authority for room state transitions in this
// process. Record mutations go through store.Update so concurrent triggers
// (deadline timer, correct guess, grace-period removal) cannot clobber each
// other; every mutation ends with a snapshot broadcast to the room.
type Coordinator struct {
	store  store.Store
	rooms  *room.Registry
	cfg    config.Config
	log    *logrus.Logger
	words  *WordList
	timers *timerRegistry
}

// New builds a coordinator. words may be nil to use the default pool.
func New(st store.Store, rooms *room.Registry, cfg config.Config, log *logrus.Logger, words *WordList) *Coordinator {
	if words == nil {
		words = NewWordList(nil)
	}
	return &Coordinator{
		store:  st,
		rooms:  rooms,
		cfg:    cfg,
		log:    log,
		words:  words,
		timers: newTimerRegistry(),
	}
}

func lobbyKey(code string) string { return "lobby:" + code }
func gameKey(code string) string  { return "game:" + code }

func decodeLobby(data []byte) (models.Lobby, error) {
	var l models.Lobby
	if err := json.Unmarshal(data, &l); err != nil {
		return models.Lobby{}, fmt.Errorf("decode lobby record: %w", err)
	}
	return l, nil
}

func decodeGame(data []byte) (models.Game, error) {
	var g models.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return models.Game{}, fmt.Errorf("decode game record: %w", err)
	}
	return g, nil
}

func lobbyEvent(typ string, l models.Lobby) map[string]interface{} {
	return map[string]interface{}{"type": typ, "lobby": l}
}

func gameEvent(typ string, g models.Game) map[string]interface{} {
	return map[string]interface{}{"type": typ, "game": g}
}

func timerEvent(timeLeft int64) map[string]interface{} {
	return map[string]interface{}{"type": "timer-update", "timeLeft": timeLeft}
}

func chatEvent(nickname, message string, isCorrect bool) map[string]interface{} {
	return map[string]interface{}{
		"type":      "chat-message",
		"nickname":  nickname,
		"message":   message,
		"isCorrect": isCorrect,
		"timestamp": time.Now().UnixMilli(),
	}
}
