package server

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/casewire/casewire/pkg/rpc"
)

// ErrConnClosed reports a push to a connection that has already gone away.
var ErrConnClosed = errors.New("connection closed")

// client wraps one WebSocket connection. Writes are serialized by the mutex;
// results for this connection may arrive from another connection's read loop.
type client struct {
	id   string
	sock *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// push marshals an event envelope and writes it as one text frame.
func (c *client) push(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(rpc.Message{Event: event, Data: data})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	return c.sock.WriteMessage(websocket.TextMessage, frame)
}

func (c *client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.sock.Close()
}
