package game

import "github.com/sketchparty/sketchparty/internal/models"

// Outbound event names. These match the client protocol one to one.
const (
	EventUsernameApproved    = "usernameApproved"
	EventUsernameDisapproved = "usernameDisapproved"
	EventRoomNameApproved    = "roomNameApproved"
	EventRoomNameDisapproved = "roomNameDisapproved"
	EventRooms               = "rooms"
	EventUsers               = "users"
	EventCountdown           = "countdown"
	EventClearCanvas         = "clearCanvas"
	EventStartGame           = "startGame"
	EventTime                = "time"
	EventFreeLetter          = "freeLetter"
	EventGuessed             = "guessed"
	EventEndGame             = "endGame"
	EventMessage             = "message"
	EventDraw                = "draw"
)

// RoomInfo is one entry of the lobby room list.
type RoomInfo struct {
	RoomName string `json:"roomName"`
	Members  int    `json:"members"`
}

// StartGamePayload announces the round to the room.
type StartGamePayload struct {
	Artist models.RoomMember `json:"artist"`
	Word   string            `json:"word"`
}

// FreeLetter is one revealed hint from the secret word.
type FreeLetter struct {
	Letter string `json:"letter"`
	Index  int    `json:"index"`
}

// ChatMessage is a relayed chat line.
type ChatMessage struct {
	Body string `json:"body"`
	User string `json:"user"`
}
