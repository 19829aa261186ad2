package game

import (
	"log"
	"math/rand"
	"time"

	"github.com/sketchparty/sketchparty/internal/models"
)

// StartRound begins a new round: resets every member's guessed flag, rotates
// the artist, creates the game session and arms the pre-round countdown.
// A no-op when a session is already active or membership is below the minimum.
func (e *Engine) StartRound(room *models.Room) {
	room.Lock()
	if room.CurrentGame != nil || len(room.Members) < MinPlayersToStart {
		room.Unlock()
		return
	}
	for _, m := range room.Members {
		m.Guessed = false
	}
	artist := e.nextArtist(room)
	g := models.NewGameSession(e.words.Next(), e.timing.RoundSeconds, artist)
	room.CurrentGame = g
	room.StopTimers()
	var t *time.Timer
	t = time.AfterFunc(e.timing.StartDelay, func() { e.beginPlay(room, g, t) })
	room.StartTimer = t
	roster := snapshotRoster(room)
	room.Unlock()

	log.Printf("round starting: room=%s artist=%s", room.Name, artist.Username)
	e.bcast.ToRoom(room.Name, models.Notice{Type: EventCountdown})
	e.bcast.ToRoom(room.Name, models.Notice{Type: EventClearCanvas})
	e.bcast.ToRoom(room.Name, models.Notice{Type: EventUsers, Data: roster})
}

// EndRound discards the session, announces the end of the round and arms the
// restart delay. Safe to call concurrently from the timer-expiry path and the
// all-guessed path: only the first caller observes a session, later calls are
// no-ops.
func (e *Engine) EndRound(room *models.Room) {
	room.Lock()
	if room.CurrentGame == nil {
		room.Unlock()
		return
	}
	room.CurrentGame = nil
	if room.StartTimer != nil {
		room.StartTimer.Stop()
		room.StartTimer = nil
	}
	var t *time.Timer
	t = time.AfterFunc(e.timing.RestartDelay, func() {
		room.Lock()
		if room.RestartTimer == t {
			room.RestartTimer = nil
		}
		live := e.alive(room) && room.CurrentGame == nil && len(room.Members) >= MinPlayersToStart
		room.Unlock()
		if live {
			e.StartRound(room)
		}
		// With fewer than two members the room goes dormant until a
		// join schedules the next attempt.
	})
	room.RestartTimer = t
	room.Unlock()

	log.Printf("round ended: room=%s", room.Name)
	e.bcast.ToRoom(room.Name, models.Notice{Type: EventEndGame})
}

// Tick performs one countdown step: broadcast the remaining time, decrement,
// maybe reveal a hint, and end the round once the countdown runs out. Returns
// false when the round is over and the caller's ticker should stop. A tick
// firing after the session is gone detects that and self-cancels.
func (e *Engine) Tick(room *models.Room) bool {
	room.Lock()
	g := room.CurrentGame
	if g == nil {
		room.Unlock()
		return false
	}
	shown := g.TimeRemaining
	g.TimeRemaining--
	hint := e.maybeReveal(g)
	expired := g.TimeRemaining < 0
	room.Unlock()

	e.bcast.ToRoom(room.Name, models.Notice{Type: EventTime, Data: shown})
	if hint != nil {
		e.bcast.ToRoom(room.Name, models.Notice{Type: EventFreeLetter, Data: *hint})
	}
	if expired {
		log.Printf("round expired: room=%s", room.Name)
		e.EndRound(room)
		return false
	}
	return true
}

// beginPlay fires after the pre-round countdown: it announces the artist and
// word to the room and starts the tick loop. The callback is tied to the
// session it was scheduled for; if that session was discarded during the
// countdown it does nothing.
func (e *Engine) beginPlay(room *models.Room, g *models.GameSession, t *time.Timer) {
	room.Lock()
	if room.StartTimer == t {
		room.StartTimer = nil
	}
	if room.CurrentGame != g || !e.alive(room) {
		room.Unlock()
		return
	}
	// The word goes to the whole room, artist and guessers alike. That is
	// what the original protocol does; clients are trusted to hide it.
	payload := StartGamePayload{Artist: *g.Artist, Word: g.Word}
	room.Unlock()

	e.bcast.ToRoom(room.Name, models.Notice{Type: EventStartGame, Data: payload})
	go e.runTicker(room, g)
}

// runTicker drives the once-per-interval round tick until the session it was
// started for is gone.
func (e *Engine) runTicker(room *models.Room, g *models.GameSession) {
	ticker := time.NewTicker(e.timing.Tick)
	defer ticker.Stop()
	for range ticker.C {
		room.RLock()
		current := room.CurrentGame == g
		room.RUnlock()
		if !current || !e.Tick(room) {
			return
		}
	}
}

// nextArtist pops the head of the rotation queue, refilling the queue from
// the score ranking when it is exhausted. Queue entries for members who have
// since left are skipped. Call with the room lock held and at least one
// member present.
func (e *Engine) nextArtist(room *models.Room) *models.RoomMember {
	for {
		if len(room.NextUp) == 0 {
			ranked := Rank(room.MemberList())
			room.NextUp = make([]string, len(ranked))
			for i, m := range ranked {
				room.NextUp[i] = m.Username
			}
		}
		head := room.NextUp[0]
		room.NextUp = room.NextUp[1:]
		if m, ok := room.Members[head]; ok {
			return m
		}
	}
}

// maybeReveal adds one random unrevealed letter when the countdown crosses a
// hint boundary: a positive multiple of the hint interval that is neither the
// full round nor zero. The number of hints per round is capped at a third of
// the word length. Call with the room lock held.
func (e *Engine) maybeReveal(g *models.GameSession) *FreeLetter {
	budget := g.HintBudget()
	if budget == 0 || len(g.Revealed) >= budget {
		return nil
	}
	interval := e.timing.RoundSeconds / (budget + 1)
	if interval == 0 {
		return nil
	}
	t := g.TimeRemaining
	if t <= 0 || t == e.timing.RoundSeconds || t%interval != 0 {
		return nil
	}
	free := g.UnrevealedIndices()
	if len(free) == 0 {
		return nil
	}
	idx := free[rand.Intn(len(free))]
	g.Revealed[idx] = true
	letters := []rune(g.Word)
	return &FreeLetter{Letter: string(letters[idx]), Index: idx}
}
