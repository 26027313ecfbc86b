package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedivtagguy/rhymer/internal/apperror"
)

type fakeSession struct {
	mu         sync.Mutex
	starts     []string
	connects   []string
	messages   [][]byte
	closes     []string
	connectErr error
}

func (that *fakeSession) OnStart(_ context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.starts = append(that.starts, roomID)

	return nil
}

func (that *fakeSession) OnConnect(_ context.Context, _, connID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connects = append(that.connects, connID)

	return that.connectErr
}

func (that *fakeSession) OnMessage(_ context.Context, _, _ string, raw []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.messages = append(that.messages, append([]byte(nil), raw...))

	return nil
}

func (that *fakeSession) OnClose(_ context.Context, _, connID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closes = append(that.closes, connID)

	return nil
}

func (that *fakeSession) snapshot() (starts, connects []string, messages [][]byte, closes []string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]string(nil), that.starts...),
		append([]string(nil), that.connects...),
		append([][]byte(nil), that.messages...),
		append([]string(nil), that.closes...)
}

func newTestServer(t *testing.T, session *fakeSession) (*httptest.Server, *Hub) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	hub := NewHub(logger)
	srv := New(logger, session, hub)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.handleRoom(context.Background(), w, r)
	}))
	t.Cleanup(ts.Close)

	return ts, hub
}

func dial(t *testing.T, ts *httptest.Server, roomID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/rooms/" + roomID + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func TestParseRoomPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
		ok       bool
	}{
		{name: "Valid path", path: "/rooms/abc/ws", expected: "abc", ok: true},
		{name: "Missing ws suffix", path: "/rooms/abc", ok: false},
		{name: "Empty room id", path: "/rooms//ws", ok: false},
		{name: "Nested path", path: "/rooms/a/b/ws", ok: false},
		{name: "Wrong prefix", path: "/games/abc/ws", ok: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			roomID, ok := parseRoomPath(test.path)

			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.expected, roomID)
		})
	}
}

func TestServer_ConnectionLifecycle(t *testing.T) {
	// Given: a running server with a recording session
	session := &fakeSession{}
	ts, hub := newTestServer(t, session)

	// When: a client connects, sends a frame, and disconnects
	conn := dial(t, ts, "room1")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"rhyme"}`)))

	require.Eventually(t, func() bool {
		_, _, messages, _ := session.snapshot()
		return len(messages) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	// Then: the session saw start, connect, the frame, and close in order
	require.Eventually(t, func() bool {
		_, _, _, closes := session.snapshot()
		return len(closes) == 1
	}, time.Second, 10*time.Millisecond)

	starts, connects, messages, closes := session.snapshot()
	assert.Equal(t, []string{"room1"}, starts)
	require.Len(t, connects, 1)
	assert.JSONEq(t, `{"type":"rhyme"}`, string(messages[0]))
	assert.Equal(t, connects, closes)

	// And: the hub forgot the connection
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.rooms)
}

func TestServer_StartsRoomOnce(t *testing.T) {
	// Given: a running server
	session := &fakeSession{}
	ts, _ := newTestServer(t, session)

	// When: two clients join the same room
	dial(t, ts, "room1")
	dial(t, ts, "room1")

	require.Eventually(t, func() bool {
		_, connects, _, _ := session.snapshot()
		return len(connects) == 2
	}, time.Second, 10*time.Millisecond)

	// Then: the start event ran exactly once
	starts, _, _, _ := session.snapshot()
	assert.Equal(t, []string{"room1"}, starts)
}

func TestServer_RejectedConnectionLeavesHub(t *testing.T) {
	// Given: a session that refuses every connect
	session := &fakeSession{connectErr: apperror.ErrRoomFull}
	ts, hub := newTestServer(t, session)

	// When: a client connects
	conn := dial(t, ts, "room1")

	// Then: the server drops the connection without a close event
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.rooms) == 0
	}, time.Second, 10*time.Millisecond)

	_, _, _, closes := session.snapshot()
	assert.Empty(t, closes)
}

func TestHub_Broadcast(t *testing.T) {
	// Given: two clients in a room, one in another
	session := &fakeSession{}
	ts, hub := newTestServer(t, session)

	conn1 := dial(t, ts, "room1")
	conn2 := dial(t, ts, "room1")
	conn3 := dial(t, ts, "room2")

	require.Eventually(t, func() bool {
		_, connects, _, _ := session.snapshot()
		return len(connects) == 3
	}, time.Second, 10*time.Millisecond)

	// When: broadcasting to room1
	hub.Broadcast("room1", map[string]string{"type": "sync"})

	// Then: both room1 clients receive the frame, room2 does not
	for _, conn := range []*websocket.Conn{conn1, conn2} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"sync"}`, string(raw))
	}

	require.NoError(t, conn3.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn3.ReadMessage()
	assert.Error(t, err)
}

func TestHub_Send(t *testing.T) {
	// Given: a single client in a room
	session := &fakeSession{}
	ts, hub := newTestServer(t, session)

	conn := dial(t, ts, "room1")

	require.Eventually(t, func() bool {
		_, connects, _, _ := session.snapshot()
		return len(connects) == 1
	}, time.Second, 10*time.Millisecond)

	_, connects, _, _ := session.snapshot()
	connID := connects[0]

	// When: sending to that connection and to an unknown one
	hub.Send("room1", connID, map[string]string{"type": "room_full"})
	hub.Send("room1", "ghost", map[string]string{"type": "room_full"})

	// Then: exactly one frame arrives
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"room_full"}`, string(raw))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
