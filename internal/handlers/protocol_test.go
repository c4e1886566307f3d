// internal/handlers/protocol_test.go
package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeClientEvent(t *testing.T) {
	ev, err := decodeClientEvent([]byte(`{"type":"join-lobby","code":"ABC123","nickname":"Ann"}`))
	require.NoError(t, err)
	assert.Equal(t, EventJoinLobby, ev.Type)

	var p joinLobbyPayload
	require.NoError(t, ev.payload(&p))
	assert.Equal(t, "ABC123", p.Code)
	assert.Equal(t, "Ann", p.Nickname)
}

func TestDecodeClientEventErrors(t *testing.T) {
	_, err := decodeClientEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = decodeClientEvent([]byte(`{"code":"ABC123"}`))
	assert.Error(t, err, "events without a type tag are rejected")
}

func TestRawPayloadPassthrough(t *testing.T) {
	ev, err := decodeClientEvent([]byte(`{"type":"drawing","lobbyCode":"ABC123","paths":[[1,2],[3,4]],"width":3}`))
	require.NoError(t, err)

	m, err := ev.rawPayload()
	require.NoError(t, err)
	assert.Equal(t, "ABC123", m["lobbyCode"])
	assert.Contains(t, m, "paths")
	assert.Contains(t, m, "width", "unknown stroke attributes survive decoding")
}

func TestExtractCookieToken(t *testing.T) {
	assert.Equal(t, "tok123", extractCookieToken("auth_token=tok123", "auth_token"))
	assert.Equal(t, "tok123", extractCookieToken("other=1; auth_token=tok123; x=2", "auth_token"))
	assert.Equal(t, "", extractCookieToken("other=1", "auth_token"))
}
