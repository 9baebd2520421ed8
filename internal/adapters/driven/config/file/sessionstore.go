package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore persists the backend session as a TOML file in the atlas
// config directory, keeping sign-ins alive across CLI invocations.
type SessionStore struct {
	mu       sync.Mutex
	filePath string
}

// sessionRecord is the on-disk session format.
type sessionRecord struct {
	State  string `toml:"state"`
	Token  string `toml:"token,omitempty"`
	Email  string `toml:"email,omitempty"`
	Reason string `toml:"reason,omitempty"`

	UserID    string `toml:"user_id,omitempty"`
	UserName  string `toml:"user_name,omitempty"`
	UserAdmin bool   `toml:"user_admin,omitempty"`
}

// NewSessionStore creates a session store.
// If configDir is empty, defaults to ~/.atlas/session.toml.
func NewSessionStore(configDir string) (*SessionStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".atlas")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SessionStore{
		filePath: filepath.Join(configDir, "session.toml"),
	}, nil
}

// Load returns the stored session, or domain.ErrNotFound if none exists.
func (s *SessionStore) Load() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var record sessionRecord
	if err := toml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}

	session := &domain.Session{
		Token:  record.Token,
		Email:  record.Email,
		Reason: record.Reason,
		User: domain.User{
			ID:    record.UserID,
			Email: record.Email,
			Name:  record.UserName,
			Admin: record.UserAdmin,
		},
	}
	if record.State == domain.SessionPresent.String() {
		session.State = domain.SessionPresent
	}
	return session, nil
}

// Save stores the session, replacing any previous one. The file carries
// the bearer credential, so permissions stay restricted.
func (s *SessionStore) Save(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := sessionRecord{
		State:     session.State.String(),
		Token:     session.Token,
		Email:     session.Email,
		Reason:    session.Reason,
		UserID:    session.User.ID,
		UserName:  session.User.Name,
		UserAdmin: session.User.Admin,
	}

	data, err := toml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Clear removes the stored session.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
