package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestSocket(t *testing.T) *WebSocket {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewWebSocket(context.Background(), conn)
}

func TestRuntimeClient_SendAfterCloseFailsCleanly(t *testing.T) {
	req := require.New(t)
	c := NewClient(context.Background(), newTestSocket(t), "alice")
	c.Close()

	// A registry reader may still hold this handle after Close. Every
	// push must come back as a plain delivery failure.
	for i := 0; i < 64; i++ {
		req.ErrorIs(c.Send(context.Background(), []byte("late frame")), ErrClientClosed)
	}
}

func TestRuntimeClient_ConcurrentSendAndCloseDoesNotPanic(t *testing.T) {
	c := NewClient(context.Background(), newTestSocket(t), "alice")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				// Outcome may be nil or ErrClientClosed depending on
				// timing; the process must survive either way.
				_ = c.Send(ctx, []byte("frame"))
			}
		}()
	}
	c.Close()
	wg.Wait()
}

func TestRuntimeClient_CloseIsIdempotent(t *testing.T) {
	c := NewClient(context.Background(), newTestSocket(t), "alice")
	c.Close()
	c.Close()
	require.ErrorIs(t, c.Send(context.Background(), []byte("x")), ErrClientClosed)
}
