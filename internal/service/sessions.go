package service

import (
	"context"
	"sync"
	"time"

	"storefront/internal/models"
)

// SessionStore keeps the option selections of open item cards
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.CardSession) error
	GetSession(ctx context.Context, id string) (*models.CardSession, error)
	SetSelection(ctx context.Context, id, name, value string) error
	DeleteSession(ctx context.Context, id string) error
}

type memoryEntry struct {
	session   models.CardSession
	expiresAt time.Time
}

// MemorySessionStore is the single-process SessionStore used when Redis is disabled
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*memoryEntry
	now      func() time.Time
}

// NewMemorySessionStore creates a store; a zero ttl keeps sessions forever
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) CreateSession(_ context.Context, session *models.CardSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.sessions[session.ID] = &memoryEntry{
		session:   copySession(session),
		expiresAt: m.expiry(),
	}
	return nil
}

func (m *MemorySessionStore) GetSession(_ context.Context, id string) (*models.CardSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.live(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := copySession(&entry.session)
	return &s, nil
}

func (m *MemorySessionStore) SetSelection(_ context.Context, id, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.live(id)
	if !ok {
		return ErrSessionNotFound
	}
	if value == "" {
		delete(entry.session.Selections, name)
	} else {
		entry.session.Selections[name] = value
	}
	entry.expiresAt = m.expiry()
	return nil
}

func (m *MemorySessionStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Len reports the number of live sessions
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	return len(m.sessions)
}

func (m *MemorySessionStore) live(id string) (*memoryEntry, bool) {
	entry, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.expired(entry) {
		delete(m.sessions, id)
		return nil, false
	}
	return entry, true
}

func (m *MemorySessionStore) sweep() {
	for id, entry := range m.sessions {
		if m.expired(entry) {
			delete(m.sessions, id)
		}
	}
}

func (m *MemorySessionStore) expired(entry *memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}

func (m *MemorySessionStore) expiry() time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(m.ttl)
}

func copySession(s *models.CardSession) models.CardSession {
	out := models.CardSession{
		ID:         s.ID,
		ItemID:     s.ItemID,
		Selections: make(map[string]string, len(s.Selections)),
	}
	for k, v := range s.Selections {
		out.Selections[k] = v
	}
	return out
}
