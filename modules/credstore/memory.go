package credstore

import "sync"

// State holds the token pair in process memory only.
type State struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewState returns an empty in-memory store.
func NewState() *State {
	return &State{}
}

// NewStateWith returns an in-memory store seeded with a pair.
func NewStateWith(access, refresh string) *State {
	return &State{access: access, refresh: refresh}
}

func (s *State) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

func (s *State) RefreshToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, s.refresh != ""
}

func (s *State) SetTokens(access, refresh string) error {
	s.mu.Lock()
	s.access, s.refresh = access, refresh
	s.mu.Unlock()
	return nil
}

func (s *State) Clear() error {
	return s.SetTokens("", "")
}

func (s *State) Close() error {
	return nil
}
