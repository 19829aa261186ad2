package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sketchparty/sketchparty/internal/game"
	"github.com/sketchparty/sketchparty/internal/models"
	"github.com/sketchparty/sketchparty/internal/store"
)

// Hub tracks connected clients and routes inbound events into the engine.
// It also implements the engine's Broadcaster: every connected client belongs
// to the lobby audience for room-list updates, and clients that joined a room
// additionally receive that room's notices.
type Hub struct {
	users  *store.UserStore
	engine *game.Engine
	debug  bool

	mu      sync.RWMutex
	clients map[*Client]bool
	byRoom  map[string]map[*Client]bool

	upgrader websocket.Upgrader
}

// NewHub creates a hub. The engine is wired afterwards via SetEngine because
// hub and engine reference each other.
func NewHub(users *store.UserStore) *Hub {
	return &Hub{
		users:   users,
		debug:   os.Getenv("DEBUG") != "",
		clients: make(map[*Client]bool),
		byRoom:  make(map[string]map[*Client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SetEngine wires the game engine.
func (h *Hub) SetEngine(e *game.Engine) {
	h.engine = e
}

// HandleWS upgrades the connection, registers the client and starts its pumps.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	c := &Client{
		ID:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan models.Notice, sendBufferSize),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	log.Printf("client connected: id=%s", c.ID)

	go c.writePump()

	// New connections start in the lobby and get the room list right away.
	c.deliver(models.Notice{Type: game.EventRooms, Data: h.engine.RoomList()})

	c.readPump()
}

// route dispatches one inbound event. Malformed payloads are dropped.
func (h *Hub) route(c *Client, msg inbound) {
	if h.debug {
		log.Printf("event: client=%s type=%s", c.ID, msg.Type)
	}
	switch msg.Type {
	case "approveUsername":
		var name string
		if err := json.Unmarshal(msg.Data, &name); err != nil {
			return
		}
		h.claimUsername(c, strings.TrimSpace(name))
	case "approveRoomName":
		var name string
		if err := json.Unmarshal(msg.Data, &name); err != nil {
			return
		}
		h.createRoom(c, strings.TrimSpace(name))
	case "joinRoom":
		var name string
		if err := json.Unmarshal(msg.Data, &name); err != nil {
			return
		}
		h.joinRoom(c, strings.TrimSpace(name))
	case "message":
		var chat chatPayload
		if err := json.Unmarshal(msg.Data, &chat); err != nil {
			return
		}
		h.chat(c, chat)
	case "draw":
		h.draw(c, msg.Data)
	default:
		log.Printf("unknown event: client=%s type=%s", c.ID, msg.Type)
	}
}

// claimUsername approves a globally unique username for the client.
func (h *Hub) claimUsername(c *Client, name string) {
	h.mu.Lock()
	if name == "" || c.username != "" || !h.users.Claim(name) {
		h.mu.Unlock()
		c.deliver(models.Notice{Type: game.EventUsernameDisapproved})
		return
	}
	c.username = name
	h.mu.Unlock()

	log.Printf("username approved: client=%s user=%s", c.ID, name)
	c.deliver(models.Notice{Type: game.EventUsernameApproved, Data: name})
}

// createRoom claims a room name and auto-joins the creator.
func (h *Hub) createRoom(c *Client, name string) {
	h.mu.RLock()
	username, joined := c.username, c.room
	h.mu.RUnlock()
	if name == "" || username == "" || joined != "" {
		c.deliver(models.Notice{Type: game.EventRoomNameDisapproved})
		return
	}

	if _, err := h.engine.CreateRoom(name); err != nil {
		log.Printf("room create rejected: name=%s user=%s err=%v", name, username, err)
		c.deliver(models.Notice{Type: game.EventRoomNameDisapproved})
		return
	}
	c.deliver(models.Notice{Type: game.EventRoomNameApproved, Data: name})
	h.joinRoom(c, name)
}

// joinRoom subscribes the socket to the room's notices, then joins the
// member. The socket is registered first so the join's own roster broadcast
// reaches the joiner.
func (h *Hub) joinRoom(c *Client, name string) {
	h.mu.Lock()
	if c.username == "" || c.room != "" {
		h.mu.Unlock()
		return
	}
	c.room = name
	if h.byRoom[name] == nil {
		h.byRoom[name] = make(map[*Client]bool)
	}
	h.byRoom[name][c] = true
	username := c.username
	h.mu.Unlock()

	if err := h.engine.JoinRoom(name, username); err != nil {
		log.Printf("join failed: room=%s user=%s err=%v", name, username, err)
		h.mu.Lock()
		c.room = ""
		delete(h.byRoom[name], c)
		if len(h.byRoom[name]) == 0 {
			delete(h.byRoom, name)
		}
		h.mu.Unlock()
	}
}

// chat routes a chat line through guess evaluation. The server-side username
// is used, never the one in the payload.
func (h *Hub) chat(c *Client, msg chatPayload) {
	h.mu.RLock()
	room, username := c.room, c.username
	h.mu.RUnlock()
	if room == "" {
		return
	}
	if err := h.engine.Guess(room, username, msg.Body); err != nil {
		log.Printf("guess dropped: room=%s user=%s err=%v", room, username, err)
	}
}

// draw relays a stroke payload through the engine.
func (h *Hub) draw(c *Client, payload json.RawMessage) {
	h.mu.RLock()
	room, username := c.room, c.username
	h.mu.RUnlock()
	if room == "" {
		return
	}
	if err := h.engine.Draw(room, username, payload); err != nil {
		log.Printf("draw dropped: room=%s user=%s err=%v", room, username, err)
	}
}

// disconnect tears down a client: releases its username, leaves its room and
// signals the write pump to close the connection. Idempotent.
func (h *Hub) disconnect(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	room, username := c.room, c.username
	if room != "" {
		delete(h.byRoom[room], c)
		if len(h.byRoom[room]) == 0 {
			delete(h.byRoom, room)
		}
	}
	h.mu.Unlock()

	if username != "" {
		h.users.Release(username)
	}
	if room != "" {
		if err := h.engine.LeaveRoom(room, username); err != nil {
			log.Printf("leave on disconnect: room=%s user=%s err=%v", room, username, err)
		}
	}
	close(c.done)
	log.Printf("client disconnected: id=%s user=%s", c.ID, username)
}

// ToLobby sends a notice to every connected client.
func (h *Hub) ToLobby(n models.Notice) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.deliver(n)
	}
}

// ToRoom sends a notice to every client in the room.
func (h *Hub) ToRoom(room string, n models.Notice) {
	for _, c := range h.roomClients(room) {
		c.deliver(n)
	}
}

// ToMember sends a notice to one member of the room.
func (h *Hub) ToMember(room, username string, n models.Notice) {
	h.mu.RLock()
	var target *Client
	for c := range h.byRoom[room] {
		if c.username == username {
			target = c
			break
		}
	}
	h.mu.RUnlock()

	if target != nil {
		target.deliver(n)
	}
}

// ToOthers sends a notice to every client in the room except one member.
func (h *Hub) ToOthers(room, exceptUsername string, n models.Notice) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.byRoom[room]))
	for c := range h.byRoom[room] {
		if c.username != exceptUsername {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.deliver(n)
	}
}

// roomClients snapshots the clients subscribed to a room.
func (h *Hub) roomClients(room string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	targets := make([]*Client, 0, len(h.byRoom[room]))
	for c := range h.byRoom[room] {
		targets = append(targets, c)
	}
	return targets
}
