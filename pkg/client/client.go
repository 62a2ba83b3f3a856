// Package client is the consumer half of the delivery gateway: it
// dials the socket with the credential token, decodes presence and
// new-message events, and reconciles pushed records with REST
// responses through a per-conversation Buffer.
package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"chatwire/internal/core/domain"
)

// Handlers receives decoded socket events. Nil fields are skipped.
type Handlers struct {
	OnPresence   func(online []string)
	OnNewMessage func(rec domain.MessageRecord)
}

// Client is one live consumer connection.
type Client struct {
	log      *slog.Logger
	conn     *websocket.Conn
	cancel   context.CancelFunc
	handlers Handlers

	mu     sync.RWMutex
	online []string
}

// Dial connects to wsURL presenting token in the jwt cookie and starts
// the event loop. The connection lives until ctx is cancelled or the
// transport closes.
func Dial(ctx context.Context, log *slog.Logger, wsURL, token string, handlers Handlers) (*Client, error) {
	header := http.Header{}
	header.Set("Cookie", "jwt="+token)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrAuthentication
		}
		return nil, err
	}
	// The connection carries its own cancel so the watcher below dies
	// with the connection even under a long-lived parent context.
	connCtx, cancel := context.WithCancel(ctx)
	c := &Client{
		log:      log,
		conn:     conn,
		cancel:   cancel,
		handlers: handlers,
	}
	go c.readLoop(connCtx)
	return c, nil
}

func (c *Client) Close() error {
	c.cancel()
	return c.conn.Close()
}

// Online returns the last presence snapshot received.
func (c *Client) Online() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.online))
	copy(out, c.online)
	return out
}

func (c *Client) readLoop(ctx context.Context) {
	// Cancelling releases the watcher when the transport closes first.
	defer c.cancel()
	defer c.conn.Close()
	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	var envelope domain.InboundEvent
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.log.Warn("client - undecodable event dropped", "size", len(data))
		return
	}
	switch envelope.Type {
	case domain.TypePresence:
		var ev domain.PresenceEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		c.mu.Lock()
		c.online = ev.Online
		c.mu.Unlock()
		if c.handlers.OnPresence != nil {
			c.handlers.OnPresence(ev.Online)
		}
	case domain.TypeNewMessage:
		var ev domain.NewMessageEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		if c.handlers.OnNewMessage != nil {
			c.handlers.OnNewMessage(ev.Message)
		}
	case domain.TypeError:
		var ev domain.ErrorEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		c.log.Warn("client - gateway error event", "code", ev.Code, "message", ev.Message)
	default:
		c.log.Warn("client - unknown event dropped", "event_type", envelope.Type)
	}
}
