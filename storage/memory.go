// In-memory outcome storage.
//
// Information Hiding:
// - Slice storage structure hidden from users
// - Thread-safe access via RWMutex hidden behind interface
// - Suitable for testing and ephemeral sessions

package storage

import (
	"context"
	"sync"
)

// InMemoryStorage implements OutcomeStorage using an in-memory slice.
// Data is lost when the process terminates.
type InMemoryStorage struct {
	mu       sync.RWMutex
	outcomes []Outcome
}

// NewInMemoryStorage creates a new in-memory storage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{}
}

// SaveOutcome stores one outcome record.
func (s *InMemoryStorage) SaveOutcome(ctx context.Context, outcome Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outcomes = append(s.outcomes, outcome)
	return nil
}

// ListOutcomes returns the most recent outcomes, newest first.
func (s *InMemoryStorage) ListOutcomes(ctx context.Context, limit int) ([]Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.outcomes)
	if limit <= 0 || limit > n {
		limit = n
	}

	// Return copies, newest first
	result := make([]Outcome, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		result = append(result, s.outcomes[i])
	}
	return result, nil
}

// Close is a no-op for in-memory storage.
func (s *InMemoryStorage) Close() error {
	return nil
}

// Verify InMemoryStorage implements OutcomeStorage
var _ OutcomeStorage = (*InMemoryStorage)(nil)
