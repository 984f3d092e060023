package settlement

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps settlements in a map. The service and handler tests run
// against it.
type MemoryStore struct {
	mu          sync.Mutex
	settlements map[string]Settlement
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settlements: make(map[string]Settlement)}
}

func (m *MemoryStore) Create(ctx context.Context, s Settlement) error {
	return m.CreateBatch(ctx, []Settlement{s})
}

// CreateBatch checks the whole batch before writing any of it, so a conflict on
// the last row leaves the store untouched.
func (m *MemoryStore) CreateBatch(_ context.Context, batch []Settlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range batch {
		if m.conflicts(s) {
			return ErrConflict
		}
		for _, earlier := range batch[:i] {
			if earlier.ID == s.ID || samePair(earlier, s) {
				return ErrConflict
			}
		}
	}
	for _, s := range batch {
		m.settlements[s.ID] = s
	}
	return nil
}

// conflicts mirrors the table's unique keys: the id, and one settlement per
// payer/payee pair within a round. Caller holds m.mu.
func (m *MemoryStore) conflicts(s Settlement) bool {
	if _, ok := m.settlements[s.ID]; ok {
		return true
	}
	for _, other := range m.settlements {
		if samePair(other, s) {
			return true
		}
	}
	return false
}

func samePair(a, b Settlement) bool {
	return a.RoundID == b.RoundID && a.FromUserID == b.FromUserID && a.ToUserID == b.ToUserID
}

func (m *MemoryStore) Get(_ context.Context, id string) (Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settlements[id]
	if !ok {
		return Settlement{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) ListByUser(_ context.Context, userID string) ([]Settlement, error) {
	return m.filter(func(s Settlement) bool { return s.Involves(userID) }), nil
}

func (m *MemoryStore) ListByRound(_ context.Context, roundID string) ([]Settlement, error) {
	return m.filter(func(s Settlement) bool { return s.RoundID == roundID }), nil
}

// Transition is the compare-and-set: the status check and the write happen under
// the same lock.
func (m *MemoryStore) Transition(_ context.Context, id string, from, to Status, at time.Time) (Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settlements[id]
	if !ok {
		return Settlement{}, ErrNotFound
	}
	if s.Status != from {
		return Settlement{}, ErrStatusConflict
	}
	s = s.Advance(to, at)
	m.settlements[id] = s
	return s, nil
}

// filter returns matches oldest first, ties by id.
func (m *MemoryStore) filter(keep func(Settlement) bool) []Settlement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Settlement{}
	for _, s := range m.settlements {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
