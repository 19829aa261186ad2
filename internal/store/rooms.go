package store

import (
	"sync"

	"github.com/sketchparty/sketchparty/internal/models"
)

// RoomStore manages the set of active rooms by unique name. It is the only
// component that registers or destroys rooms.
type RoomStore struct {
	rooms map[string]*models.Room
	mu    sync.RWMutex
}

// NewRoomStore creates an empty room store.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*models.Room),
	}
}

// Claim registers the room under its name. It fails when the name is taken.
func (s *RoomStore) Claim(name string, room *models.Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[name]; exists {
		return false
	}
	s.rooms[name] = room
	return true
}

// Get retrieves a room by name.
func (s *RoomStore) Get(name string) (*models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, exists := s.rooms[name]
	return room, exists
}

// Delete removes a room.
func (s *RoomStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, name)
}

// Exists checks if a room name is registered.
func (s *RoomStore) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.rooms[name]
	return exists
}

// List returns a snapshot of all rooms.
func (s *RoomStore) List() []*models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		list = append(list, room)
	}
	return list
}
