package dashboard

import (
	"log"
	"sync"

	"inventory/internal/form"
)

// Manager hands out one Session per operator.
type Manager struct {
	store     Store
	validator *form.Validator
	opts      Options

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager whose sessions share store.
func NewManager(store Store, opts Options) *Manager {
	return &Manager{
		store:     store,
		validator: form.NewValidator(),
		opts:      opts,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the session for owner, creating it on first use.
func (m *Manager) Session(owner string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[owner]; ok {
		return s
	}
	s := NewSession(owner, m.store, m.validator, m.opts)
	m.sessions[owner] = s
	log.Printf("Dashboard session started for %s", owner)
	return s
}

// Drop forgets the session for owner.
func (m *Manager) Drop(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, owner)
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
