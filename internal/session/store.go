package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one authenticated principal's presence window.
type Session struct {
	UserID   uuid.UUID `json:"userId"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	LastSeen time.Time `json:"lastSeen"`
}

// Store tracks active sessions. Injected explicitly where needed;
// entries expire after the configured idle TTL.
type Store interface {
	Touch(ctx context.Context, s Session)
	List(ctx context.Context) []Session
	Revoke(ctx context.Context, userID uuid.UUID) bool
}

type memoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[uuid.UUID]Session
	nowFn    func() time.Time
}

func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]Session),
		nowFn:    time.Now,
	}
}

func (m *memoryStore) Touch(_ context.Context, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.LastSeen = m.nowFn()
	m.sessions[s.UserID] = s
	m.sweep()
}

func (m *memoryStore) List(_ context.Context) []Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()

	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastSeen.After(out[j].LastSeen) })
	return out
}

func (m *memoryStore) Revoke(_ context.Context, userID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; !ok {
		return false
	}
	delete(m.sessions, userID)
	return true
}

// sweep drops idle entries. Callers hold m.mu.
func (m *memoryStore) sweep() {
	cutoff := m.nowFn().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
