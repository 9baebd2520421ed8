// Package memory provides in-memory implementations of the driven storage
// ports, used in tests and as fallbacks when file storage is unavailable.
package memory

import (
	"sync"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu      sync.RWMutex
	session *domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Load returns the stored session, or domain.ErrNotFound if none.
func (s *SessionStore) Load() (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, domain.ErrNotFound
	}
	copied := *s.session
	return &copied, nil
}

// Save stores the session, replacing any previous one.
func (s *SessionStore) Save(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

// Clear removes the stored session.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
