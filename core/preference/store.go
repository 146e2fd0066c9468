package preference

import (
	"context"
	"sync"
)

// Store persists per-session preference state. Implementations must
// serialize Record calls for the same session ID; different sessions are
// independent and need no cross coordination.
type Store interface {
	// Get returns the state for the session, or an empty state if unseen.
	Get(ctx context.Context, sessionID string) (State, error)
	// Record applies Observe to the stored state and persists the result.
	Record(ctx context.Context, sessionID string, rec SessionRecord) (State, error)
	Close() error
}

// MemoryStore keeps preference state in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]State
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[sessionID], nil
}

func (m *MemoryStore) Record(_ context.Context, sessionID string, rec SessionRecord) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := Observe(m.states[sessionID], rec.StartHour, rec)
	m.states[sessionID] = next
	return next, nil
}

func (m *MemoryStore) Close() error { return nil }
