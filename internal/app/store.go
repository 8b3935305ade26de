package app

import "litfish/internal/domain"

// Store maps room codes to live game state. It is not safe for concurrent
// use: each match owns its own Store and the Nakama match loop serializes
// every mutation of a match.
type Store struct {
	games map[string]*domain.GameState
}

// NewStore returns an empty room store.
func NewStore() *Store {
	return &Store{games: make(map[string]*domain.GameState)}
}

// Get returns the state for a room code, or nil when absent.
func (s *Store) Get(roomCode string) *domain.GameState {
	return s.games[roomCode]
}

// Exists reports whether a game is stored under the room code.
func (s *Store) Exists(roomCode string) bool {
	_, ok := s.games[roomCode]
	return ok
}

// Put stores the state under the room code, replacing any previous game.
func (s *Store) Put(roomCode string, g *domain.GameState) {
	s.games[roomCode] = g
}

// Remove discards the room's game. Removing an absent room is a no-op.
func (s *Store) Remove(roomCode string) {
	delete(s.games, roomCode)
}
