// Package memory provides a map-backed challenge store for tests and
// ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/courtside/fastbreak/internal/domain/challenge"
	"github.com/courtside/fastbreak/internal/domain/model"
)

// Store keeps challenges in process memory. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	byDate map[string]model.Challenge
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{byDate: make(map[string]model.Challenge)}
}

// Load returns a deep copy of the challenge for date.
func (s *Store) Load(_ context.Context, date string) (model.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.byDate[date]
	if !ok {
		return model.Challenge{}, fmt.Errorf("%w: challenge %s", challenge.ErrNotFound, date)
	}
	return ch.Clone(), nil
}

// Save stores a deep copy of ch keyed by its date.
func (s *Store) Save(_ context.Context, ch model.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byDate[ch.Date] = ch.Clone()
	return nil
}

// Update applies fn to the stored challenge under the store lock, so
// concurrent updates for the same date serialize.
func (s *Store) Update(_ context.Context, date string, fn func(*model.Challenge) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.byDate[date]
	if !ok {
		return fmt.Errorf("%w: challenge %s", challenge.ErrNotFound, date)
	}
	work := ch.Clone()
	if err := fn(&work); err != nil {
		return err
	}
	s.byDate[date] = work
	return nil
}
