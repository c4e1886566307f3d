// internal/session/session_test.go
package session

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mlevan/scrawl/internal/config"
	"github.com/mlevan/scrawl/internal/models"
	"github.com/mlevan/scrawl/internal/room"
	"github.com/mlevan/scrawl/internal/store"

	"github.com/google/uuid"
)

// testConfig uses short timings so round and grace transitions can be
// observed with real timers, as the upstream game tests do.
func testConfig() config.Config {
	return config.Config{
		TotalRounds:   5,
		RoundDuration: 200 * time.Millisecond,
		TickInterval:  50 * time.Millisecond,
		AdvanceDelay:  30 * time.Millisecond,
		GracePeriod:   120 * time.Millisecond,
		SessionTTL:    time.Hour,
	}
}

func newTestCoordinator(t *testing.T) (*Coordinator, *room.Registry, *store.MemoryStore) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st := store.NewMemoryStore()
	rooms := room.NewRegistry()
	// Single-word pool keeps guesses deterministic.
	c := New(st, rooms, testConfig(), logger, NewWordList([]string{"apple"}))
	return c, rooms, st
}

func newTestClient() *room.Client {
	return room.NewClient(uuid.New(), func() {}, nil)
}

// drainEvents empties a client's outgoing channel.
func drainEvents(c *room.Client) []map[string]interface{} {
	var out []map[string]interface{}
	for {
		select {
		case m := <-c.OutChan:
			out = append(out, m)
		default:
			return out
		}
	}
}

func eventsOfType(events []map[string]interface{}, typ string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, e := range events {
		if e["type"] == typ {
			out = append(out, e)
		}
	}
	return out
}

// loadGame reads the persisted game record for code.
func loadGame(t *testing.T, st *store.MemoryStore, code string) models.Game {
	t.Helper()
	data, err := st.Get(context.Background(), gameKey(code))
	require.NoError(t, err)
	g, err := decodeGame(data)
	require.NoError(t, err)
	return g
}

// loadLobby reads the persisted lobby record for code.
func loadLobby(t *testing.T, st *store.MemoryStore, code string) models.Lobby {
	t.Helper()
	data, err := st.Get(context.Background(), lobbyKey(code))
	require.NoError(t, err)
	l, err := decodeLobby(data)
	require.NoError(t, err)
	return l
}

// putGame persists a handcrafted game record.
func putGame(t *testing.T, st *store.MemoryStore, g models.Game) {
	t.Helper()
	data, err := json.Marshal(g)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), gameKey(g.Code), data, time.Hour))
}

// putLobby persists a handcrafted lobby record.
func putLobby(t *testing.T, st *store.MemoryStore, l models.Lobby) {
	t.Helper()
	data, err := json.Marshal(l)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), lobbyKey(l.Code), data, time.Hour))
}
