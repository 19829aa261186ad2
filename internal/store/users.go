package store

import "sync"

// UserStore tracks the usernames claimed by connected players. A username is
// unique across the process for the lifetime of the connection that claimed it.
type UserStore struct {
	users map[string]struct{}
	mu    sync.Mutex
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]struct{}),
	}
}

// Claim reserves a username. It fails when the name is taken.
func (s *UserStore) Claim(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return false
	}
	s.users[username] = struct{}{}
	return true
}

// Release frees a username for future connections.
func (s *UserStore) Release(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, username)
}

// Count returns the number of claimed usernames.
func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
