package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sketchparty/sketchparty/internal/models"
	"github.com/sketchparty/sketchparty/internal/store"
)

// stubWords always returns the same word, so tests control hint math.
type stubWords struct {
	word string
}

func (s stubWords) Next() string {
	return s.word
}

// recorder captures broadcast notices for assertions. It must be safe for
// concurrent use because timer goroutines broadcast too.
type recorder struct {
	mu     sync.Mutex
	lobby  []models.Notice
	room   []models.Notice
	member map[string][]models.Notice
	others []models.Notice
}

func newRecorder() *recorder {
	return &recorder{member: make(map[string][]models.Notice)}
}

func (r *recorder) ToLobby(n models.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lobby = append(r.lobby, n)
}

func (r *recorder) ToRoom(_ string, n models.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.room = append(r.room, n)
}

func (r *recorder) ToMember(_, username string, n models.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.member[username] = append(r.member[username], n)
}

func (r *recorder) ToOthers(_, _ string, n models.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.others = append(r.others, n)
}

// roomCount returns how many room notices of the given type were sent.
func (r *recorder) roomCount(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.room {
		if n.Type == eventType {
			count++
		}
	}
	return count
}

// roomEvents returns the room notices of the given type, in order.
func (r *recorder) roomEvents(eventType string) []models.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notice
	for _, n := range r.room {
		if n.Type == eventType {
			out = append(out, n)
		}
	}
	return out
}

// lobbyEvents returns the lobby notices of the given type, in order.
func (r *recorder) lobbyEvents(eventType string) []models.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notice
	for _, n := range r.lobby {
		if n.Type == eventType {
			out = append(out, n)
		}
	}
	return out
}

// othersCount returns how many notices of the given type were relayed to
// everyone but the sender.
func (r *recorder) othersCount(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.others {
		if n.Type == eventType {
			count++
		}
	}
	return count
}

// memberEvents returns the private notices sent to one member.
func (r *recorder) memberEvents(username string) []models.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notice(nil), r.member[username]...)
}

// newTestEngine builds an engine whose timers effectively never fire, so
// tests drive transitions by calling StartRound/Tick/EndRound directly.
func newTestEngine(word string) (*Engine, *store.RoomStore, *recorder) {
	rooms := store.NewRoomStore()
	rec := newRecorder()
	timing := Timing{
		RoundSeconds: RoundSeconds,
		Tick:         time.Hour,
		StartDelay:   time.Hour,
		RestartDelay: time.Hour,
	}
	return NewEngine(rooms, stubWords{word: word}, rec, timing), rooms, rec
}

// setupRoom creates a room and joins the given members in order.
func setupRoom(t *testing.T, e *Engine, name string, usernames ...string) *models.Room {
	t.Helper()
	room, err := e.CreateRoom(name)
	require.NoError(t, err)
	for _, u := range usernames {
		require.NoError(t, e.JoinRoom(name, u))
	}
	t.Cleanup(func() {
		room.Lock()
		room.StopTimers()
		room.Unlock()
	})
	return room
}

// currentGame reads the room's session under lock.
func currentGame(room *models.Room) *models.GameSession {
	room.RLock()
	defer room.RUnlock()
	return room.CurrentGame
}

// setTimeRemaining adjusts the countdown of the active session under lock.
func setTimeRemaining(room *models.Room, seconds int) {
	room.Lock()
	defer room.Unlock()
	room.CurrentGame.TimeRemaining = seconds
}
