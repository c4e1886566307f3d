// internal/handlers/protocol.go
package handlers

import (
	"encoding/json"
	"fmt"
)

// Client-to-server event vocabulary. The set is closed: anything outside it
// is answered with a lobby-error rather than dispatched dynamically.
const (
	EventCreateLobby     = "create-lobby"
	EventJoinLobby       = "join-lobby"
	EventGetLobby        = "get-lobby"
	EventStartGame       = "start-game"
	EventNextRound       = "next-round"
	EventGetGame         = "get-game"
	EventReconnectPlayer = "reconnect-player"
	EventDrawing         = "drawing"
	EventClearCanvas     = "clear-canvas"
	EventSubmitGuess     = "submit-guess"
	EventSendMessage     = "send-message"
)

type createLobbyPayload struct {
	Nickname string `json:"nickname"`
}

type joinLobbyPayload struct {
	Code     string `json:"code"`
	Nickname string `json:"nickname"`
}

// roomCodePayload covers get-lobby, start-game, next-round, and get-game.
type roomCodePayload struct {
	Code string `json:"code"`
}

type reconnectPayload struct {
	Code     string `json:"code"`
	Nickname string `json:"nickname"`
}

type submitGuessPayload struct {
	LobbyCode string `json:"lobbyCode"`
	Nickname  string `json:"nickname"`
	Guess     string `json:"guess"`
}

type sendMessagePayload struct {
	LobbyCode string `json:"lobbyCode"`
	Nickname  string `json:"nickname"`
	Message   string `json:"message"`
}

type clearCanvasPayload struct {
	LobbyCode string `json:"lobbyCode"`
}

// clientEvent is one decoded inbound message: the type tag plus the raw
// bytes, re-decoded into the matching payload struct at dispatch.
type clientEvent struct {
	Type string
	raw  []byte
}

func decodeClientEvent(data []byte) (clientEvent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return clientEvent{}, fmt.Errorf("invalid event json: %w", err)
	}
	if envelope.Type == "" {
		return clientEvent{}, fmt.Errorf("event missing type field")
	}
	return clientEvent{Type: envelope.Type, raw: data}, nil
}

// payload decodes the event body into dst.
func (e clientEvent) payload(dst interface{}) error {
	if err := json.Unmarshal(e.raw, dst); err != nil {
		return fmt.Errorf("invalid %s payload: %w", e.Type, err)
	}
	return nil
}

// rawPayload returns the whole event object as a generic map, used for the
// drawing passthrough where the stroke shape is opaque to the server.
func (e clientEvent) rawPayload() (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(e.raw, &m); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", e.Type, err)
	}
	return m, nil
}
