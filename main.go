package main

import (
	"log"
	"net/http"

	"github.com/sketchparty/sketchparty/internal/config"
	"github.com/sketchparty/sketchparty/internal/game"
	"github.com/sketchparty/sketchparty/internal/handlers"
	"github.com/sketchparty/sketchparty/internal/store"
	"github.com/sketchparty/sketchparty/internal/words"
	"github.com/sketchparty/sketchparty/internal/ws"
)

func main() {
	cfg := config.Load()

	provider, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal("Failed to load word corpus: ", err)
	}
	log.Printf("Loaded %d words from %s", provider.Len(), cfg.WordsFile)

	roomStore := store.NewRoomStore()
	userStore := store.NewUserStore()

	hub := ws.NewHub(userStore)
	engine := game.NewEngine(roomStore, provider, hub, game.Timing{
		RoundSeconds: cfg.RoundSeconds,
		Tick:         cfg.TickInterval,
		StartDelay:   cfg.StartDelay,
		RestartDelay: cfg.RestartDelay,
	})
	hub.SetEngine(engine)

	hctx := &handlers.Context{
		Engine:    engine,
		Rooms:     roomStore,
		PublicURL: cfg.PublicURL,
	}

	http.HandleFunc("/", hctx.HandleIndex)
	http.HandleFunc("/rooms", hctx.HandleRooms)
	http.HandleFunc("/qr/", hctx.HandleQR)
	http.HandleFunc("/ws", hub.HandleWS)

	addr := ":" + cfg.Port
	log.Printf("Server starting on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
