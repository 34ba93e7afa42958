package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientOrigin = "http://localhost:3000"

func startTestServer(t *testing.T) (*Hub, string) {
	t.Helper()

	hub := NewHub()
	go hub.Run()
	handler := NewHandler(hub, clientOrigin)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = handler.ServeWS(w, r)
	}))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialChat(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()

	require.NoError(t, conn.WriteJSON(map[string]any{"event": event, "data": data}))
}

func readEvent(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestServeWSJoinSendDisconnect(t *testing.T) {
	_, wsURL := startTestServer(t)

	alice := dialChat(t, wsURL)
	sendEvent(t, alice, EventJoin, map[string]any{"username": "alice", "room": "General"})

	env := readEvent(t, alice)
	require.Equal(t, EventRoomUsers, env.Event)

	bob := dialChat(t, wsURL)
	sendEvent(t, bob, EventJoin, map[string]any{"username": "bob", "room": "General"})

	// Alice sees the arrival message first, then the refreshed member list.
	env = readEvent(t, alice)
	require.Equal(t, EventMessage, env.Event)
	var arrival ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &arrival))
	assert.Equal(t, "System", arrival.Username)
	assert.Equal(t, "bob has joined the room", arrival.Text)
	assert.NotEmpty(t, arrival.Time)

	env = readEvent(t, alice)
	require.Equal(t, EventRoomUsers, env.Event)
	var presence RoomUsers
	require.NoError(t, json.Unmarshal(env.Data, &presence))
	assert.Equal(t, "General", presence.Room)
	assert.ElementsMatch(t, []string{"alice", "bob"}, presence.Users)

	env = readEvent(t, bob)
	require.Equal(t, EventRoomUsers, env.Event)

	sendEvent(t, bob, EventSendMessage, map[string]any{"username": "bob", "room": "General", "text": "hi"})

	env = readEvent(t, bob)
	require.Equal(t, EventMessage, env.Event)
	var echoed ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &echoed))
	assert.Equal(t, "bob", echoed.Username)
	assert.Equal(t, "hi", echoed.Text)

	env = readEvent(t, alice)
	require.Equal(t, EventMessage, env.Event)

	env = readEvent(t, alice)
	require.Equal(t, EventTyping, env.Event)
	var typing TypingNotice
	require.NoError(t, json.Unmarshal(env.Data, &typing))
	assert.Equal(t, TypingNotice{Username: "bob", IsTyping: false}, typing)

	require.NoError(t, bob.Close())

	env = readEvent(t, alice)
	require.Equal(t, EventMessage, env.Event)
	var departure ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &departure))
	assert.Equal(t, "bob has left the room", departure.Text)

	env = readEvent(t, alice)
	require.Equal(t, EventRoomUsers, env.Event)
	require.NoError(t, json.Unmarshal(env.Data, &presence))
	assert.Equal(t, []string{"alice"}, presence.Users)
}

func TestServeWSTypingRelay(t *testing.T) {
	_, wsURL := startTestServer(t)

	alice := dialChat(t, wsURL)
	sendEvent(t, alice, EventJoin, map[string]any{"username": "alice", "room": "Gaming"})
	readEvent(t, alice)

	bob := dialChat(t, wsURL)
	sendEvent(t, bob, EventJoin, map[string]any{"username": "bob", "room": "Gaming"})
	readEvent(t, alice) // arrival message
	readEvent(t, alice) // member list
	readEvent(t, bob)

	sendEvent(t, alice, EventTyping, map[string]any{"username": "alice", "room": "Gaming", "isTyping": true})

	env := readEvent(t, bob)
	require.Equal(t, EventTyping, env.Event)
	var typing TypingNotice
	require.NoError(t, json.Unmarshal(env.Data, &typing))
	assert.Equal(t, TypingNotice{Username: "alice", IsTyping: true}, typing)
}

func TestServeWSMalformedFrameIsIgnored(t *testing.T) {
	_, wsURL := startTestServer(t)

	alice := dialChat(t, wsURL)
	sendEvent(t, alice, EventJoin, map[string]any{"username": "alice", "room": "General"})
	readEvent(t, alice)

	// A frame that fails boundary validation is dropped; the connection
	// keeps working.
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("not json")))
	sendEvent(t, alice, EventSendMessage, map[string]any{"username": "alice", "room": "General", "text": "still here"})

	env := readEvent(t, alice)
	require.Equal(t, EventMessage, env.Event)
	var msg ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "still here", msg.Text)
}

func TestServeWSRejectsForeignOrigin(t *testing.T) {
	_, wsURL := startTestServer(t)

	header := http.Header{"Origin": []string{"http://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServeWSAllowsConfiguredOrigin(t *testing.T) {
	hub, wsURL := startTestServer(t)

	header := http.Header{"Origin": []string{clientOrigin}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	sendEvent(t, conn, EventJoin, map[string]any{"username": "alice", "room": "General"})
	readEvent(t, conn)

	assert.Equal(t, map[string]int{"General": 1}, hub.RoomCounts())
}
