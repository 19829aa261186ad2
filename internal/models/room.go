package models

import (
	"sync"
	"time"
)

// Room owns its member roster, the artist rotation queue and at most one
// active game session. Every field is guarded by the room's lock; timer
// handles live here so round transitions can cancel pending ones.
type Room struct {
	Name        string
	Members     map[string]*RoomMember // username -> member
	Order       []string               // usernames in join order
	NextUp      []string               // rotation queue of usernames awaiting an artist turn
	CurrentGame *GameSession

	StartTimer   *time.Timer // pending round-start delay, nil when none
	RestartTimer *time.Timer // pending post-round restart delay, nil when none

	mu sync.RWMutex
}

// NewRoom creates an empty room.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		Members: make(map[string]*RoomMember),
	}
}

// Lock acquires the room's write lock
func (r *Room) Lock() {
	r.mu.Lock()
}

// Unlock releases the room's write lock
func (r *Room) Unlock() {
	r.mu.Unlock()
}

// RLock acquires the room's read lock
func (r *Room) RLock() {
	r.mu.RLock()
}

// RUnlock releases the room's read lock
func (r *Room) RUnlock() {
	r.mu.RUnlock()
}

// AddMember adds a fresh member (score 0, not guessed). If the username is
// already a member the existing entry is returned unchanged. Call with the
// lock held.
func (r *Room) AddMember(username string) *RoomMember {
	if m, ok := r.Members[username]; ok {
		return m
	}
	m := &RoomMember{Username: username}
	r.Members[username] = m
	r.Order = append(r.Order, username)
	return m
}

// RemoveMember deletes the member and reports whether it existed. Call with
// the lock held.
func (r *Room) RemoveMember(username string) bool {
	if _, ok := r.Members[username]; !ok {
		return false
	}
	delete(r.Members, username)
	for i, name := range r.Order {
		if name == username {
			r.Order = append(r.Order[:i], r.Order[i+1:]...)
			break
		}
	}
	return true
}

// MemberList returns the members in join order. Call with the lock held.
func (r *Room) MemberList() []*RoomMember {
	list := make([]*RoomMember, 0, len(r.Members))
	for _, name := range r.Order {
		list = append(list, r.Members[name])
	}
	return list
}

// GuessedCount counts the members who guessed the current word. The artist
// never guesses, so the population is at most len(Members)-1. Call with the
// lock held.
func (r *Room) GuessedCount() int {
	count := 0
	for _, m := range r.Members {
		if m.Guessed {
			count++
		}
	}
	return count
}

// StopTimers cancels any pending delayed transitions. Call with the lock held.
func (r *Room) StopTimers() {
	if r.StartTimer != nil {
		r.StartTimer.Stop()
		r.StartTimer = nil
	}
	if r.RestartTimer != nil {
		r.RestartTimer.Stop()
		r.RestartTimer = nil
	}
}
