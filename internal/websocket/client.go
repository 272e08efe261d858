package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	queueSize    = 16
	pingInterval = 30 * time.Second
)

// Client is one connected screen.
type Client struct {
	hub   *Hub
	conn  *ws.Conn
	queue chan []byte
}

func newClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{hub: hub, conn: conn, queue: make(chan []byte, queueSize)}
}

// serve runs the connection until the peer goes away or ctx ends.
func (c *Client) serve(ctx context.Context) {
	c.hub.add(c)
	defer c.hub.remove(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writeLoop(ctx)

	// Screens only listen; anything they send is discarded. A read error
	// means the connection is gone.
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.queue:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}
