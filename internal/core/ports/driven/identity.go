package driven

import "context"

// Identity is the assertion obtained from the third-party sign-in provider.
// The ID token is preferred; email plus subject is the fallback when the
// provider response carries no token.
type Identity struct {
	// IDToken is the provider-signed JWT, when available.
	IDToken string
	// Email is the verified email address.
	Email string
	// Subject is the provider's stable user identifier.
	Subject string
}

// IdentityProvider performs the third-party sign-in (Google OAuth).
// SignIn blocks until the browser flow completes or ctx is cancelled.
type IdentityProvider interface {
	// SignIn runs the interactive sign-in flow and returns the identity
	// assertion. It does not talk to the Atlas backend.
	SignIn(ctx context.Context) (*Identity, error)
}
