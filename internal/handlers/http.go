package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/sketchparty/sketchparty/internal/game"
	"github.com/sketchparty/sketchparty/internal/store"
)

// Context holds shared dependencies for the HTTP handlers.
type Context struct {
	Engine    *game.Engine
	Rooms     *store.RoomStore
	PublicURL string
}

// HandleIndex identifies the server and points clients at the socket endpoint.
func (ctx *Context) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"name":      "sketchparty",
		"websocket": "/ws",
	})
}

// HandleRooms returns the current room list as JSON, for lobby bootstrap
// without a socket.
func (ctx *Context) HandleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ctx.Engine.RoomList())
}

// HandleQR serves a PNG QR code encoding the join link for an existing room.
func (ctx *Context) HandleQR(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/qr/")
	if name == "" || !ctx.Rooms.Exists(name) {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(ctx.PublicURL+"/#/"+name, qrcode.Medium, 256)
	if err != nil {
		log.Printf("qr encode failed: room=%s err=%v", name, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
