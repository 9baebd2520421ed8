package driven

import "github.com/atlas-kb/atlas-cli/internal/core/domain"

// SessionStore persists the backend session between CLI invocations.
// It is the terminal analogue of the browser keeping its sign-in alive:
// the session record (including an absent-with-reason one) survives process
// restarts; everything else in the view state is rebuilt from fetches.
type SessionStore interface {
	// Load returns the stored session, or domain.ErrNotFound if none.
	Load() (*domain.Session, error)

	// Save stores the session, replacing any previous one.
	Save(session *domain.Session) error

	// Clear removes the stored session (sign-out).
	Clear() error
}
