package models

// RoomMember is one player's presence in a room. Score persists across rounds
// until the member leaves; Guessed is reset at the start of every round.
type RoomMember struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Guessed  bool   `json:"guessed"`
}
