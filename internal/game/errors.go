package game

import "errors"

var (
	// ErrNameTaken is returned when a username or room name is already claimed.
	ErrNameTaken = errors.New("name already taken")

	// ErrRoomNotFound is returned for operations on a room that does not exist.
	// Callers treat it as a recoverable no-op: the room may have been emptied
	// and removed while the event was in flight.
	ErrRoomNotFound = errors.New("room not found")

	// ErrMemberNotFound is returned when a username is not a member of the room.
	ErrMemberNotFound = errors.New("member not found")
)
