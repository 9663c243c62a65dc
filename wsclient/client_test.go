package wsclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livescore-service/pkg/common"
)

var testUpgrader = websocket.Upgrader{}

func newWSServer(t *testing.T, handler func(conn *websocket.Conn)) (*httptest.Server, string) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		handler(conn)
	}))
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	return ts, url
}

// holdOpen keeps a server-side connection alive until the client closes it
func holdOpen(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			conn.Close()
			return
		}
	}
}

func TestConnectAndDisconnect(t *testing.T) {
	ts, url := newWSServer(t, holdOpen)
	defer ts.Close()

	client := NewClient(url)
	require.NoError(t, client.Connect())
	assert.True(t, client.IsConnected())

	// Connect on a connected client is a no-op
	require.NoError(t, client.Connect())

	require.NoError(t, client.Disconnect())
	assert.False(t, client.IsConnected())
}

func TestDisconnectWhenNotConnected(t *testing.T) {
	client := NewClient("ws://localhost:0")
	assert.ErrorIs(t, client.Disconnect(), common.ErrNotConnected)
}

func TestJoinMatchRequiresConnection(t *testing.T) {
	client := NewClient("ws://localhost:0")
	assert.ErrorIs(t, client.JoinMatch(7), common.ErrNotConnected)
	assert.ErrorIs(t, client.LeaveMatch(7), common.ErrNotConnected)
}

func TestJoinAndLeaveMatchSendFrames(t *testing.T) {
	frames := make(chan Message, 4)
	ts, url := newWSServer(t, func(conn *websocket.Conn) {
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				conn.Close()
				return
			}
			frames <- msg
		}
	})
	defer ts.Close()

	client := NewClient(url)
	require.NoError(t, client.Connect())
	defer client.Disconnect()

	require.NoError(t, client.JoinMatch(7))
	require.NoError(t, client.LeaveMatch(7))

	join := <-frames
	assert.Equal(t, eventJoinMatch, join.Event)
	assert.Equal(t, "7", string(join.Data))

	leave := <-frames
	assert.Equal(t, eventLeaveMatch, leave.Event)
	assert.Equal(t, "7", string(leave.Data))
}

// Handlers run one at a time on the read loop, so events arrive in the
// order the server emitted them.
func TestHandlersRunInDeliveryOrder(t *testing.T) {
	ts, url := newWSServer(t, func(conn *websocket.Conn) {
		for i := 1; i <= 3; i++ {
			conn.WriteJSON(map[string]interface{}{"event": EventMatchUpdate, "data": i})
		}
		holdOpen(conn)
	})
	defer ts.Close()

	client := NewClient(url)

	var got []string
	done := make(chan struct{})
	client.On(EventMatchUpdate, func(msg *Message) {
		got = append(got, string(msg.Data))
		if len(got) == 3 {
			close(done)
		}
	})

	require.NoError(t, client.Connect())
	defer client.Disconnect()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for messages")
	}

	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestDisconnectClearsHandlers(t *testing.T) {
	ts, url := newWSServer(t, holdOpen)
	defer ts.Close()

	client := NewClient(url)
	client.On(EventLiveMatchesUpdate, func(msg *Message) {})
	client.On(EventMatchUpdate, func(msg *Message) {})

	require.NoError(t, client.Connect())
	require.NoError(t, client.Disconnect())

	client.mu.RLock()
	defer client.mu.RUnlock()
	assert.Empty(t, client.handlers, "handlers must not leak past a disconnect")
	assert.Empty(t, client.rooms)
}

// A client is reusable: an explicit Disconnect followed by Connect
// yields a live session with working read and ping loops.
func TestConnectAfterExplicitDisconnect(t *testing.T) {
	ts, url := newWSServer(t, func(conn *websocket.Conn) {
		conn.WriteJSON(map[string]interface{}{"event": EventMatchUpdate, "data": 1})
		holdOpen(conn)
	})
	defer ts.Close()

	client := NewClient(url)
	require.NoError(t, client.Connect())
	require.NoError(t, client.Disconnect())

	received := make(chan string, 2)
	client.On(EventMatchUpdate, func(msg *Message) {
		received <- string(msg.Data)
	})

	require.NoError(t, client.Connect())
	defer client.Disconnect()

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame on the second connection")
	}
}

func TestReconnectAfterConnectionLoss(t *testing.T) {
	var dials int32
	frames := make(chan Message, 4)

	ts, url := newWSServer(t, func(conn *websocket.Conn) {
		n := atomic.AddInt32(&dials, 1)
		if n == 1 {
			// Drop the first connection after the join arrives
			var msg Message
			conn.ReadJSON(&msg)
			frames <- msg
			conn.Close()
			return
		}
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				conn.Close()
				return
			}
			frames <- msg
		}
	})
	defer ts.Close()

	client := NewClient(url)
	client.ReconnectDelay = 10 * time.Millisecond

	require.NoError(t, client.Connect())
	require.NoError(t, client.JoinMatch(7))

	// First connection saw the join, then dropped
	first := <-frames
	assert.Equal(t, eventJoinMatch, first.Event)

	// The client reconnects with its fixed delay and re-joins the room
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&dials) >= 2 && client.IsConnected()
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case rejoined := <-frames:
		assert.Equal(t, eventJoinMatch, rejoined.Event)
		assert.Equal(t, "7", string(rejoined.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for re-join after reconnect")
	}

	client.Disconnect()
}

func TestReconnectGivesUpAfterBoundedAttempts(t *testing.T) {
	ts, url := newWSServer(t, func(conn *websocket.Conn) {
		conn.Close()
	})

	client := NewClient(url)
	client.ReconnectDelay = 5 * time.Millisecond
	client.MaxReconnectAttempts = 2

	require.NoError(t, client.Connect())

	// Kill the server so every reconnection attempt fails
	ts.Close()

	// Exhaustion is silent: the client simply stays disconnected
	time.Sleep(200 * time.Millisecond)
	assert.False(t, client.IsConnected())
}
