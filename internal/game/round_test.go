package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchparty/sketchparty/internal/store"
)

func TestStartRoundRequiresTwoMembers(t *testing.T) {
	e, _, rec := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada")

	e.StartRound(room)

	assert.Nil(t, currentGame(room))
	assert.Zero(t, rec.roomCount(EventCountdown))
}

func TestStartRoundCreatesSession(t *testing.T) {
	e, _, rec := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)

	g := currentGame(room)
	require.NotNil(t, g)
	assert.Equal(t, "banana", g.Word)
	assert.Equal(t, RoundSeconds, g.TimeRemaining)
	assert.Empty(t, g.Revealed)
	room.RLock()
	_, isMember := room.Members[g.Artist.Username]
	room.RUnlock()
	assert.True(t, isMember, "artist must be a current room member")

	assert.Equal(t, 1, rec.roomCount(EventCountdown))
	assert.Equal(t, 1, rec.roomCount(EventClearCanvas))
}

func TestStartRoundResetsGuessedFlags(t *testing.T) {
	e, _, _ := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	room.Lock()
	room.Members["grace"].Guessed = true
	room.Unlock()

	e.StartRound(room)

	room.RLock()
	defer room.RUnlock()
	for _, m := range room.Members {
		assert.False(t, m.Guessed)
	}
}

func TestStartRoundNoOpWhileActive(t *testing.T) {
	e, _, rec := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)
	first := currentGame(room)
	e.StartRound(room)

	assert.Same(t, first, currentGame(room))
	assert.Equal(t, 1, rec.roomCount(EventCountdown))
}

func TestRotationQueueRebuiltFromScoreRanking(t *testing.T) {
	e, _, _ := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace", "linus")

	room.Lock()
	room.Members["ada"].Score = 10
	room.Members["grace"].Score = 30
	room.Members["linus"].Score = 20
	room.Unlock()

	var artists []string
	for i := 0; i < 3; i++ {
		e.StartRound(room)
		artists = append(artists, currentGame(room).Artist.Username)
		e.EndRound(room)
	}

	assert.Equal(t, []string{"grace", "linus", "ada"}, artists)
}

func TestRotationQueueSkipsDepartedMembers(t *testing.T) {
	e, _, _ := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace", "linus")

	room.Lock()
	room.NextUp = []string{"gone", "linus", "ada"}
	room.Unlock()

	e.StartRound(room)

	assert.Equal(t, "linus", currentGame(room).Artist.Username)
}

func TestEndRoundIdempotent(t *testing.T) {
	e, _, rec := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)
	e.EndRound(room)
	e.EndRound(room)

	assert.Nil(t, currentGame(room))
	assert.Equal(t, 1, rec.roomCount(EventEndGame), "a round must end exactly once")
}

func TestTickBroadcastsThenDecrements(t *testing.T) {
	e, _, rec := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)
	alive := e.Tick(room)

	require.True(t, alive)
	times := rec.roomEvents(EventTime)
	require.Len(t, times, 1)
	assert.Equal(t, RoundSeconds, times[0].Data)
	assert.Equal(t, RoundSeconds-1, currentGame(room).TimeRemaining)
}

func TestTickAfterRoundEndSelfCancels(t *testing.T) {
	e, _, rec := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)
	e.EndRound(room)
	alive := e.Tick(room)

	assert.False(t, alive)
	assert.Zero(t, rec.roomCount(EventTime))
}

func TestRoundExpiryEndsGame(t *testing.T) {
	e, _, rec := newTestEngine("ab") // too short for hints
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)
	ticks := 0
	for e.Tick(room) {
		ticks++
		require.Less(t, ticks, 200, "round must expire")
	}

	assert.Nil(t, currentGame(room))
	assert.Equal(t, 1, rec.roomCount(EventEndGame))
	// The countdown is shown for every value from 90 down to 0.
	assert.Equal(t, RoundSeconds+1, rec.roomCount(EventTime))
}

func TestTimeRemainingNeverIncreases(t *testing.T) {
	e, _, rec := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)
	for e.Tick(room) {
	}

	prev := RoundSeconds + 1
	for _, n := range rec.roomEvents(EventTime) {
		shown := n.Data.(int)
		assert.Less(t, shown, prev)
		prev = shown
	}
}

// With word "apple" (5 letters) the hint budget is 1 and the interval is 45,
// so exactly one hint appears, when the countdown reaches 45.
func TestHintScheduleForApple(t *testing.T) {
	e, _, rec := newTestEngine("apple")
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)
	hintAt := -1
	for e.Tick(room) {
		if hintAt == -1 && rec.roomCount(EventFreeLetter) == 1 {
			hintAt = rec.roomCount(EventTime)
		}
	}

	hints := rec.roomEvents(EventFreeLetter)
	require.Len(t, hints, 1)
	hint := hints[0].Data.(FreeLetter)
	assert.GreaterOrEqual(t, hint.Index, 0)
	assert.Less(t, hint.Index, 5)
	assert.Equal(t, string([]rune("apple")[hint.Index]), hint.Letter)
	// The reveal rides the tick that shows 46 and decrements to 45: the
	// 45th time broadcast of the round.
	assert.Equal(t, RoundSeconds-45, hintAt)
}

// A 30-letter word has a budget of 10 hints but an interval of 8, which
// crosses 11 boundaries over the round; the budget caps the reveals.
func TestHintBudgetCapped(t *testing.T) {
	word := "abcdefghijklmnopqrstuvwxyzabcd"
	e, _, rec := newTestEngine(word)
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)
	for e.Tick(room) {
	}

	hints := rec.roomEvents(EventFreeLetter)
	assert.Len(t, hints, 10)
	seen := make(map[int]bool)
	for _, n := range hints {
		hint := n.Data.(FreeLetter)
		assert.GreaterOrEqual(t, hint.Index, 0)
		assert.Less(t, hint.Index, len(word))
		assert.False(t, seen[hint.Index], "hint indices must be unique")
		seen[hint.Index] = true
	}
}

func TestRoundLifecycleRunsOnRealTimers(t *testing.T) {
	rec := newRecorder()
	e := NewEngine(store.NewRoomStore(), stubWords{word: "ab"}, rec, Timing{
		RoundSeconds: 2,
		Tick:         5 * time.Millisecond,
		StartDelay:   5 * time.Millisecond,
		RestartDelay: 10 * time.Millisecond,
	})
	setupRoom(t, e, "lobby1", "ada", "grace")

	// Joining two members schedules a start attempt; the round should then
	// announce itself, run out, and restart on its own.
	require.Eventually(t, func() bool {
		return rec.roomCount(EventStartGame) >= 1
	}, 2*time.Second, 5*time.Millisecond, "round never announced")

	require.Eventually(t, func() bool {
		return rec.roomCount(EventEndGame) >= 1
	}, 2*time.Second, 5*time.Millisecond, "round never ended")

	require.Eventually(t, func() bool {
		return rec.roomCount(EventStartGame) >= 2
	}, 2*time.Second, 5*time.Millisecond, "round never restarted")

	start := rec.roomEvents(EventStartGame)[0].Data.(StartGamePayload)
	assert.Equal(t, "ab", start.Word)
	assert.NotEmpty(t, start.Artist.Username)

	// Emptying the room tears down the cycle instead of leaving it running.
	require.NoError(t, e.LeaveRoom("lobby1", "ada"))
	require.NoError(t, e.LeaveRoom("lobby1", "grace"))
}

func TestBeginPlayIgnoresDiscardedSession(t *testing.T) {
	e, _, rec := newTestEngine("banana")
	room := setupRoom(t, e, "lobby1", "ada", "grace")

	e.StartRound(room)
	g := currentGame(room)
	e.EndRound(room)

	room.RLock()
	timer := room.StartTimer
	room.RUnlock()
	e.beginPlay(room, g, timer)

	assert.Zero(t, rec.roomCount(EventStartGame))
}
