// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mlevan/scrawl/internal/room"
	"github.com/mlevan/scrawl/internal/session"
)

// WSHandler upgrades the connection and runs the read loop for one client.
// Every client intent arrives over this single socket as a typed event; the
// disconnect itself is the only untyped signal, inferred from the read loop
// exiting.
func WSHandler(logger *logrus.Logger, coord *session.Coordinator, rooms *room.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr

		// The session cookie must be set before the upgrade writes the 101
		// response; after Accept the headers are gone.
		sessionID, err := EnsureSession(w, r)
		if err != nil {
			logger.Warnf("session setup failed for %s: %v", remoteAddr, err)
			http.Error(w, "session setup failed", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"scrawl"},
			OriginPatterns: []string{"*"}, // adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error from %s: %v", remoteAddr, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "scrawl" {
			c.Close(websocket.StatusPolicyViolation, "client must speak the scrawl subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		client := room.NewClient(sessionID, cancel, logger)
		rooms.Register(client)
		logger.Infof("connection %s established (session %s, %s)", client.ID, sessionID, remoteAddr)

		go writePump(ctx, c, client, logger)
		readPump(ctx, c, client, coord, logger)

		logger.Infof("connection %s closed (%s)", client.ID, remoteAddr)
		rooms.Unregister(client.ID)
		coord.HandleDisconnect(client.ID)
	}
}

// readPump decodes inbound events and dispatches them until the connection
// drops or the context is cancelled.
func readPump(ctx context.Context, c *websocket.Conn, client *room.Client, coord *session.Coordinator, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				return
			}
			if strings.Contains(err.Error(), "context canceled") {
				return
			}
			logger.Warnf("connection %s: read error: %v", client.ID, err)
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		ev, err := decodeClientEvent(data)
		if err != nil {
			client.WriteError(err.Error())
			continue
		}
		dispatch(ctx, ev, client, coord, logger)
	}
}

// dispatch routes one decoded event. The event vocabulary is a closed set;
// each arm decodes its own payload shape and maps coordinator errors to a
// single lobby-error reply for the caller.
func dispatch(ctx context.Context, ev clientEvent, client *room.Client, coord *session.Coordinator, logger *logrus.Logger) {
	switch ev.Type {
	case EventCreateLobby:
		var p createLobbyPayload
		if err := ev.payload(&p); err != nil {
			client.WriteError(err.Error())
			return
		}
		if _, err := coord.CreateLobby(ctx, p.Nickname, client); err != nil {
			client.WriteError(err.Error())
		}

	case EventJoinLobby:
		var p joinLobbyPayload
		if err := ev.payload(&p); err != nil {
			client.WriteError(err.Error())
			return
		}
		if _, err := coord.JoinLobby(ctx, p.Code, p.Nickname, client); err != nil {
			client.WriteError(err.Error())
		}

	case EventGetLobby:
		var p roomCodePayload
		if err := ev.payload(&p); err != nil {
			client.WriteError(err.Error())
			return
		}
		if _, err := coord.GetLobby(ctx, p.Code, client); err != nil {
			client.WriteError(err.Error())
		}

	case EventStartGame:
		var p roomCodePayload
		if err := ev.payload(&p); err != nil {
			client.WriteError(err.Error())
			return
		}
		if _, err := coord.StartGame(ctx, p.Code, client); err != nil {
			client.WriteError(err.Error())
		}

	case EventNextRound:
		var p roomCodePayload
		if err := ev.payload(&p); err != nil {
			client.WriteError(err.Error())
			return
		}
		if err := coord.NextRound(ctx, p.Code); err != nil {
			client.WriteError(err.Error())
		}

	case EventGetGame:
		var p roomCodePayload
		if err := ev.payload(&p); err != nil {
			client.WriteError(err.Error())
			return
		}
		if _, err := coord.GetGame(ctx, p.Code, client); err != nil {
			client.WriteError(err.Error())
		}

	case EventReconnectPlayer:
		var p reconnectPayload
		if err := ev.payload(&p); err != nil {
			client.WriteError(err.Error())
			return
		}
		if err := coord.ReconnectPlayer(ctx, p.Code, p.Nickname, client); err != nil {
			client.WriteError(err.Error())
		}

	case EventDrawing:
		// Stroke payloads pass through untouched; only the sender's claim to
		// the brush is checked, and failures are dropped without a reply.
		m, err := ev.rawPayload()
		if err != nil {
			return
		}
		code, _ := m["lobbyCode"].(string)
		if code == "" {
			return
		}
		coord.RelayDrawing(ctx, code, client, m)

	case EventClearCanvas:
		var p clearCanvasPayload
		if err := ev.payload(&p); err != nil {
			return
		}
		coord.ClearCanvas(ctx, p.LobbyCode, client)

	case EventSubmitGuess:
		var p submitGuessPayload
		if err := ev.payload(&p); err != nil {
			client.WriteError(err.Error())
			return
		}
		if err := coord.SubmitGuess(ctx, p.LobbyCode, p.Nickname, p.Guess, client); err != nil {
			client.WriteError(err.Error())
		}

	case EventSendMessage:
		var p sendMessagePayload
		if err := ev.payload(&p); err != nil {
			client.WriteError(err.Error())
			return
		}
		coord.SendChat(p.LobbyCode, p.Nickname, p.Message)

	default:
		logger.Warnf("connection %s: unknown event type %q", client.ID, ev.Type)
		client.WriteError("unknown event type: " + ev.Type)
	}
}

// writePump drains the client's outgoing channel onto the socket and keeps
// the connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, client *room.Client, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("connection %s: failed to marshal outgoing msg: %v", client.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("connection %s: write failed: %v", client.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("connection %s: ping failed, assuming disconnect: %v", client.ID, err)
				return
			}
		}
	}
}
