// Package memory is an in-process SnapshotStore, used by the memory backend
// and by tests. Snapshots live for the lifetime of the process only.
package memory

import (
	"context"
	"sync"

	"carlog/internal/core"
)

type Store struct {
	mu    sync.Mutex
	state core.State
	saved bool
}

func New() *Store {
	return &Store{}
}

// Load returns the last saved snapshot, or ok=false when nothing has been
// saved yet.
func (s *Store) Load(_ context.Context) (core.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return core.State{}, false, nil
	}
	return s.state.Clone(), true, nil
}

// Save replaces the held snapshot with a defensive copy.
func (s *Store) Save(_ context.Context, state core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.saved = true
	return nil
}
