package ws

import (
	"context"
	"errors"
	"sync"
)

// ErrClientClosed is returned by Send once the connection's write pump
// has stopped. Callers treat it as a delivery failure, never a crash.
var ErrClientClosed = errors.New("client closed")

// RuntimeClient owns one live connection's write side. Sends go through
// a buffered channel drained by a single write pump, so concurrent
// broadcasts never interleave frames on the wire.
//
// The out channel is never closed: a registry reader can still hold
// this handle and call Send concurrently with Close, so the pump exits
// on the context alone and Send observes the same context. A frame
// enqueued in the instant of shutdown is dropped by the exiting pump,
// which the next failed push corrects.
type RuntimeClient struct {
	ctx    context.Context
	cancel context.CancelFunc
	ws     *WebSocket
	userID string
	out    chan []byte
	once   sync.Once
}

func NewClient(parent context.Context, ws *WebSocket, userID string) *RuntimeClient {
	ctx, cancel := context.WithCancel(parent)
	c := &RuntimeClient{
		ctx:    ctx,
		cancel: cancel,
		ws:     ws,
		userID: userID,
		out:    make(chan []byte, 256),
	}
	go c.writePump()
	return c
}

func (c *RuntimeClient) UserID() string { return c.userID }

func (c *RuntimeClient) Send(ctx context.Context, data []byte) error {
	if c.ctx.Err() != nil {
		return ErrClientClosed
	}
	select {
	case c.out <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *RuntimeClient) Close() {
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *RuntimeClient) writePump() {
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			if err := c.ws.WriteMessage(data); err != nil {
				return
			}
		}
	}
}
