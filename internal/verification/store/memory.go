package store

import (
	"context"
	"sync"

	"laurelid/internal/verification"
)

// DefaultMemoryCapacity bounds the in-memory log.
const DefaultMemoryCapacity = 1000

// InMemory keeps the most recent decisions in a bounded slice. Used when no
// database is configured.
type InMemory struct {
	mu        sync.RWMutex
	decisions []verification.Decision
	capacity  int
}

func NewInMemory(capacity int) *InMemory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &InMemory{capacity: capacity}
}

func (s *InMemory) Save(_ context.Context, decision verification.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, decision)
	if over := len(s.decisions) - s.capacity; over > 0 {
		s.decisions = append(s.decisions[:0:0], s.decisions[over:]...)
	}
	return nil
}

func (s *InMemory) Latest(_ context.Context, n int) ([]verification.Decision, error) {
	n = clampLatest(n)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]verification.Decision, 0, min(n, len(s.decisions)))
	for i := len(s.decisions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.decisions[i])
	}
	return out, nil
}
