package driving

import (
	"context"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// AuthService is the sign-in bridge between the identity provider and the
// backend session.
type AuthService interface {
	// SignIn runs the identity-provider flow and exchanges the resulting
	// assertion for a backend session credential. The exchange happens
	// exactly once per call: a domain-policy rejection fails sign-in
	// outright, while any other exchange failure yields a degraded
	// session (identity retained, credential absent with reason).
	SignIn(ctx context.Context) (*domain.Session, error)

	// SignOut forgets the stored session.
	SignOut() error

	// Current returns the stored session without re-exchanging.
	// Returns domain.ErrNotSignedIn when no session exists.
	Current() (*domain.Session, error)
}
