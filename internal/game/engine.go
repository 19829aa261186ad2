package game

import (
	"encoding/json"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/sketchparty/sketchparty/internal/models"
	"github.com/sketchparty/sketchparty/internal/store"
)

// WordProvider hands out the secret word for each round.
type WordProvider interface {
	Next() string
}

// Broadcaster delivers outbound notices to connected clients. Implementations
// must not block and must not call back into the engine.
type Broadcaster interface {
	ToLobby(n models.Notice)
	ToRoom(roomName string, n models.Notice)
	ToMember(roomName, username string, n models.Notice)
	ToOthers(roomName, exceptUsername string, n models.Notice)
}

// Timing groups the delays that drive round transitions. Defaults mirror the
// live game; tests compress them.
type Timing struct {
	RoundSeconds int
	Tick         time.Duration
	StartDelay   time.Duration
	RestartDelay time.Duration
}

// DefaultTiming returns the production timing values.
func DefaultTiming() Timing {
	return Timing{
		RoundSeconds: RoundSeconds,
		Tick:         time.Second,
		StartDelay:   StartDelaySeconds * time.Second,
		RestartDelay: RestartDelaySeconds * time.Second,
	}
}

// Engine runs the room state machines. Each room's mutable state is guarded
// by the room's own lock; rooms are independent and run fully in parallel.
type Engine struct {
	rooms  *store.RoomStore
	words  WordProvider
	bcast  Broadcaster
	timing Timing
}

// NewEngine wires the engine to its room registry, word corpus and broadcaster.
func NewEngine(rooms *store.RoomStore, words WordProvider, bcast Broadcaster, timing Timing) *Engine {
	return &Engine{rooms: rooms, words: words, bcast: bcast, timing: timing}
}

// CreateRoom claims a room name and registers an empty room. The caller is
// expected to join a member immediately; empty rooms are destroyed on leave.
func (e *Engine) CreateRoom(name string) (*models.Room, error) {
	room := models.NewRoom(name)
	if !e.rooms.Claim(name, room) {
		return nil, ErrNameTaken
	}
	log.Printf("room created: name=%s", name)
	e.PublishRooms()
	return room, nil
}

// JoinRoom adds a fresh member (score 0, not guessed) to an existing room and
// schedules a round-start attempt once enough members are present.
func (e *Engine) JoinRoom(name, username string) error {
	room, ok := e.rooms.Get(name)
	if !ok {
		return ErrRoomNotFound
	}

	room.Lock()
	room.AddMember(username)
	count := len(room.Members)
	idle := room.CurrentGame == nil
	room.Unlock()

	log.Printf("member joined: room=%s user=%s members=%d", name, username, count)
	e.PublishRooms()
	e.PublishRoster(room)

	if idle && count >= MinPlayersToStart {
		e.scheduleStart(room)
	}
	return nil
}

// LeaveRoom removes a member. The room is destroyed the instant it empties;
// an active round ends early when membership drops below the minimum or when
// the departing member is the current artist.
func (e *Engine) LeaveRoom(name, username string) error {
	room, ok := e.rooms.Get(name)
	if !ok {
		return ErrRoomNotFound
	}

	room.Lock()
	if !room.RemoveMember(username) {
		room.Unlock()
		return ErrMemberNotFound
	}
	g := room.CurrentGame
	empty := len(room.Members) == 0
	endEarly := g != nil && (len(room.Members) < MinPlayersToStart || g.Artist.Username == username)
	if empty {
		room.CurrentGame = nil
		room.StopTimers()
	}
	room.Unlock()

	if empty {
		e.rooms.Delete(name)
		log.Printf("room emptied and removed: name=%s", name)
		e.PublishRooms()
		return nil
	}
	if endEarly {
		e.EndRound(room)
	}
	log.Printf("member left: room=%s user=%s", name, username)
	e.PublishRooms()
	e.PublishRoster(room)
	return nil
}

// Draw relays a stroke to everyone else in the room. Strokes have no effect
// on game state.
func (e *Engine) Draw(name, username string, payload json.RawMessage) error {
	if !e.rooms.Exists(name) {
		return ErrRoomNotFound
	}
	e.bcast.ToOthers(name, username, models.Notice{Type: EventDraw, Data: payload})
	return nil
}

// RoomList snapshots every room's name and member count, ordered by name.
func (e *Engine) RoomList() []RoomInfo {
	rooms := e.rooms.List()
	infos := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		room.RLock()
		infos = append(infos, RoomInfo{RoomName: room.Name, Members: len(room.Members)})
		room.RUnlock()
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].RoomName < infos[j].RoomName })
	return infos
}

// PublishRooms sends the current room list to the lobby audience.
func (e *Engine) PublishRooms() {
	e.bcast.ToLobby(models.Notice{Type: EventRooms, Data: e.RoomList()})
}

// PublishRoster sends the score-ranked member list to the room.
func (e *Engine) PublishRoster(room *models.Room) {
	room.RLock()
	roster := snapshotRoster(room)
	room.RUnlock()
	e.bcast.ToRoom(room.Name, models.Notice{Type: EventUsers, Data: roster})
}

// Guess evaluates a chat message against the current word. Messages outside a
// round and wrong guesses are relayed as plain chat. A matching guess from the
// artist, or a repeat from a member who already guessed, is dropped silently.
func (e *Engine) Guess(name, username, body string) error {
	room, ok := e.rooms.Get(name)
	if !ok {
		return ErrRoomNotFound
	}

	room.Lock()
	g := room.CurrentGame
	if g == nil || !strings.EqualFold(body, g.Word) {
		room.Unlock()
		e.bcast.ToRoom(name, models.Notice{Type: EventMessage, Data: ChatMessage{Body: body, User: username}})
		return nil
	}
	m, member := room.Members[username]
	if !member {
		room.Unlock()
		return ErrMemberNotFound
	}
	if g.Artist.Username == username || m.Guessed {
		// The artist cannot leak or re-confirm the word through chat, and a
		// repeat guess never re-scores or re-broadcasts.
		room.Unlock()
		return nil
	}
	award := g.TimeRemaining
	m.Score += award
	m.Guessed = true
	word := g.Word
	allGuessed := room.GuessedCount() == len(room.Members)-1
	roster := snapshotRoster(room)
	room.Unlock()

	log.Printf("correct guess: room=%s user=%s award=%d", name, username, award)
	e.bcast.ToRoom(name, models.Notice{Type: EventUsers, Data: roster})
	e.bcast.ToMember(name, username, models.Notice{Type: EventGuessed, Data: word})
	if allGuessed {
		log.Printf("all members guessed: room=%s", name)
		e.EndRound(room)
	}
	return nil
}

// scheduleStart arms the round-start delay unless a start or restart is
// already pending. Membership is re-checked when the timer fires, not just
// here: the room can change during the delay.
func (e *Engine) scheduleStart(room *models.Room) {
	room.Lock()
	if room.StartTimer != nil || room.RestartTimer != nil || room.CurrentGame != nil {
		room.Unlock()
		return
	}
	var t *time.Timer
	t = time.AfterFunc(e.timing.StartDelay, func() {
		room.Lock()
		if room.StartTimer == t {
			room.StartTimer = nil
		}
		live := e.alive(room) && room.CurrentGame == nil && len(room.Members) >= MinPlayersToStart
		room.Unlock()
		if live {
			e.StartRound(room)
		}
	})
	room.StartTimer = t
	room.Unlock()
}

// alive reports whether the room is still the one registered under its name.
// A room emptied and re-created between a timer being armed and firing must
// not be driven by the stale handle. Call with the room lock held.
func (e *Engine) alive(room *models.Room) bool {
	got, ok := e.rooms.Get(room.Name)
	return ok && got == room
}

// snapshotRoster copies the ranked member list for broadcasting, so encoding
// never races with later score updates. Call with the room lock held.
func snapshotRoster(room *models.Room) []models.RoomMember {
	ranked := Rank(room.MemberList())
	out := make([]models.RoomMember, len(ranked))
	for i, m := range ranked {
		out[i] = *m
	}
	return out
}
