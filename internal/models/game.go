package models

// GameSession is one round: a secret word, a countdown and an artist. It is
// created at round start and discarded at round end; the artist is a
// back-reference to a current room member, not owned by the session.
type GameSession struct {
	Word          string
	TimeRemaining int
	Artist        *RoomMember
	Revealed      map[int]bool // indices into Word already given out as hints
}

// NewGameSession creates a session with a full countdown and no hints revealed.
func NewGameSession(word string, seconds int, artist *RoomMember) *GameSession {
	return &GameSession{
		Word:          word,
		TimeRemaining: seconds,
		Artist:        artist,
		Revealed:      make(map[int]bool),
	}
}

// HintBudget is the maximum number of letters ever revealed for this word.
func (g *GameSession) HintBudget() int {
	return len([]rune(g.Word)) / 3
}

// UnrevealedIndices returns the word indices still eligible as hints.
func (g *GameSession) UnrevealedIndices() []int {
	letters := []rune(g.Word)
	free := make([]int, 0, len(letters))
	for i := range letters {
		if !g.Revealed[i] {
			free = append(free, i)
		}
	}
	return free
}
