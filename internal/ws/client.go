package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sketchparty/sketchparty/internal/models"
)

const (
	// writeWait is the deadline for a single outbound write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is dropped.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufferSize is the per-client outbound queue; notices beyond it are
	// dropped rather than blocking the engine.
	sendBufferSize = 32
)

// Client is one connected socket. The username and room fields are guarded by
// the hub's lock.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan models.Notice
	done chan struct{}

	username string
	room     string
}

// inbound is the wire envelope for client events.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// chatPayload is the body of a "message" event.
type chatPayload struct {
	Body string `json:"body"`
	User string `json:"user"`
}

// deliver enqueues a notice for the client, dropping it when the client has
// gone away or its buffer is full.
func (c *Client) deliver(n models.Notice) {
	select {
	case <-c.done:
	case c.send <- n:
	default:
	}
}

// readPump reads client events until the connection drops, then tears the
// client down.
func (c *Client) readPump() {
	defer c.hub.disconnect(c)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("client read error: id=%s err=%v", c.ID, err)
			}
			return
		}
		c.hub.route(c, msg)
	}
}

// writePump serializes all writes to the connection: queued notices, pings,
// and the final close frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case n := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(n); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
