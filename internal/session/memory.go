package session

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"propchat/internal/model"
)

// MemoryStore is a process-local Store. States are copied on the way in and
// out so callers never share memory with the map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

// Get implements Store
func (m *MemoryStore) Get(_ context.Context, id string) (*model.SessionState, bool, error) {
	m.mu.RLock()
	raw, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	state := &model.SessionState{}
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, false, err
	}
	return state, true, nil
}

// Set implements Store
func (m *MemoryStore) Set(_ context.Context, id string, state *model.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[id] = raw
	m.mu.Unlock()
	return nil
}

// Delete implements Store
func (m *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok, nil
}

// Clear implements Store
func (m *MemoryStore) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.sessions)
	m.sessions = make(map[string][]byte)
	return n, nil
}

// List implements Store
func (m *MemoryStore) List(ctx context.Context) ([]model.SessionSummary, error) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)

	out := make([]model.SessionSummary, 0, len(ids))
	for _, id := range ids {
		state, ok, err := m.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, summarize(id, state))
		}
	}
	return out, nil
}
