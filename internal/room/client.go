// internal/room/client.go
package room

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Client is one live WebSocket connection. ID is the opaque connection handle
// recorded in lobby/game records; SessionID is the longer-lived identity from
// the caller's session cookie and survives reconnects.
type Client struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Cancel    context.CancelFunc
	OutChan   chan map[string]interface{}

	log *logrus.Logger
}

// NewClient builds a client with a buffered outgoing channel drained by the
// transport's write pump.
func NewClient(sessionID uuid.UUID, cancel context.CancelFunc, log *logrus.Logger) *Client {
	return &Client{
		ID:        uuid.New(),
		SessionID: sessionID,
		Cancel:    cancel,
		OutChan:   make(chan map[string]interface{}, 32),
		log:       log,
	}
}

// Write pushes a message onto the client's OutChan without blocking. A full
// or closed channel drops the message.
func (c *Client) Write(msg map[string]interface{}) {
	select {
	case c.OutChan <- msg:
	default:
		if c.log != nil {
			msgType, _ := msg["type"].(string)
			c.log.Warnf("room: OutChan for connection %s full or closed, dropped %q", c.ID, msgType)
		}
	}
}

// WriteError sends a lobby-error event to this client only.
func (c *Client) WriteError(message string) {
	c.Write(map[string]interface{}{
		"type":    "lobby-error",
		"message": message,
	})
}
