// ABOUTME: Hub lifecycle tests over real WebSocket connections
// ABOUTME: Covers event delivery and clean client teardown at shutdown

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hubFixture runs a hub and serves its WebSocket endpoint the same way
// the API server does. pumpDone closes once the server-side read pump
// for the first client has fully unwound.
type hubFixture struct {
	hub      *Hub
	server   *httptest.Server
	runDone  chan struct{}
	pumpDone chan struct{}
	cancel   context.CancelFunc
}

func newHubFixture(t *testing.T) *hubFixture {
	t.Helper()

	f := &hubFixture{
		hub:      NewHub(),
		runDone:  make(chan struct{}),
		pumpDone: make(chan struct{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() {
		f.hub.Run(ctx)
		close(f.runDone)
	}()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := &client{hub: f.hub, conn: conn, send: make(chan []byte, 16)}
		if !f.hub.add(c) {
			_ = conn.Close()
			return
		}
		go c.writePump()
		go func() {
			c.readPump()
			close(f.pumpDone)
		}()
	}))
	t.Cleanup(f.server.Close)
	t.Cleanup(cancel)
	return f
}

func (f *hubFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubDeliversBroadcasts(t *testing.T) {
	f := newHubFixture(t)
	conn := f.dial(t)

	// Registration races the broadcast; retry until the event lands.
	received := make(chan []byte, 1)
	go func() {
		_, msg, err := conn.ReadMessage()
		if err == nil {
			received <- msg
		}
	}()

	deadline := time.After(2 * time.Second)
	for {
		f.hub.Broadcast(Event{Type: "boards.changed"})
		select {
		case msg := <-received:
			assert.Contains(t, string(msg), `"boards.changed"`)
			return
		case <-deadline:
			t.Fatal("broadcast never reached the client")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHubShutdownReleasesClients(t *testing.T) {
	f := newHubFixture(t)
	conn := f.dial(t)

	f.cancel()
	select {
	case <-f.runDone:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// The peer is told the stream is over.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// The server-side read pump must unwind rather than hang handing
	// the client back to a dispatch loop that is no longer running.
	select {
	case <-f.pumpDone:
	case <-time.After(2 * time.Second):
		t.Fatal("read pump still blocked after shutdown")
	}

	// Late broadcasts on a stopped hub are dropped, not stuck.
	f.hub.Broadcast(Event{Type: "boards.changed"})
}
