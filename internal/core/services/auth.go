package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
	"github.com/atlas-kb/atlas-cli/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService bridges the identity provider to the backend session.
// The exchange runs exactly once per SignIn; later calls reuse the stored
// session without re-exchanging.
type AuthService struct {
	identity driven.IdentityProvider
	backend  driven.Backend
	store    driven.SessionStore
}

// NewAuthService creates the sign-in bridge.
func NewAuthService(identity driven.IdentityProvider, backend driven.Backend, store driven.SessionStore) *AuthService {
	return &AuthService{
		identity: identity,
		backend:  backend,
		store:    store,
	}
}

// SignIn runs the identity-provider flow, exchanges the assertion for a
// backend credential, and persists the result.
//
// Failure handling follows three distinct paths:
//   - identity flow itself fails: sign-in fails, nothing stored;
//   - backend rejects the email domain: sign-in fails, nothing stored;
//   - any other exchange failure: the identity-provider login stands, and
//     a degraded session (credential absent, reason retained) is stored so
//     the UI can show a backend-unavailable notice.
func (a *AuthService) SignIn(ctx context.Context) (*domain.Session, error) {
	ident, err := a.identity.SignIn(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity sign-in: %w", err)
	}

	session, err := a.exchange(ctx, ident)
	if err != nil {
		return nil, err
	}

	if err := a.store.Save(session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// exchange performs the single verification call against the backend.
func (a *AuthService) exchange(ctx context.Context, ident *driven.Identity) (*domain.Session, error) {
	if ident.IDToken == "" && ident.Email == "" {
		logger.Warn("sign-in produced no token and no email")
		return domain.AbsentSession("", domain.ErrNoIdentity.Error()), nil
	}

	var result *driven.VerifyResult
	var err error
	if ident.IDToken != "" {
		result, err = a.backend.VerifyIdentity(ctx, ident.IDToken)
	} else {
		result, err = a.backend.VerifyEmail(ctx, ident.Email, ident.Subject)
	}

	if err != nil {
		// Domain policy rejection is fatal: the session must not exist.
		if errors.Is(err, domain.ErrDomainRejected) {
			return nil, err
		}
		// Everything else degrades: keep the identity, flag the backend.
		logger.Warn("backend exchange failed, continuing degraded: %v", err)
		return domain.AbsentSession(ident.Email, fmt.Sprintf("backend unavailable: %v", err)), nil
	}

	logger.Info("signed in as %s", result.User.Email)
	return domain.PresentSession(result.Token, result.User), nil
}

// SignOut forgets the stored session.
func (a *AuthService) SignOut() error {
	if err := a.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the stored session without re-exchanging.
func (a *AuthService) Current() (*domain.Session, error) {
	session, err := a.store.Load()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotSignedIn
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}
