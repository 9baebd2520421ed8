package domain

import "time"

// SessionState distinguishes between a usable backend credential and an
// explicitly absent one. "Never exchanged" and "exchanged and failed" must
// not collapse into the same nil value, so the state is always explicit.
type SessionState int

const (
	// SessionAbsent means no backend credential is held. The Reason field
	// records why (exchange failure, no verifiable identity, signed out).
	SessionAbsent SessionState = iota
	// SessionPresent means a backend credential is held and usable.
	SessionPresent
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case SessionAbsent:
		return "absent"
	case SessionPresent:
		return "present"
	default:
		return "unknown"
	}
}

// User identifies the signed-in user as reported by the backend.
type User struct {
	// ID is the backend-assigned user identifier.
	ID string `json:"id"`
	// Email is the verified email address from the identity provider.
	Email string `json:"email"`
	// Name is the display name, when the provider supplies one.
	Name string `json:"name,omitempty"`
	// Admin indicates backend administrator privileges.
	Admin bool `json:"admin"`
}

// Session is the backend session record created by the sign-in bridge.
// The identity-provider login and the backend credential are separate
// concerns: a session may exist in a degraded form where the user is
// signed in with the provider but the backend exchange failed.
type Session struct {
	// State records whether a backend credential is held.
	State SessionState `json:"state"`
	// Token is the backend-issued bearer credential. Empty unless
	// State is SessionPresent.
	Token string `json:"token,omitempty"`
	// User is the backend's view of the signed-in user. Populated only
	// on a successful exchange.
	User User `json:"user"`
	// Email is the identity-provider email, retained even when the
	// backend exchange fails so the UI can show who is signed in.
	Email string `json:"email,omitempty"`
	// Reason explains an absent credential ("backend unavailable: ...",
	// "no verifiable identity", "signed out").
	Reason string `json:"reason,omitempty"`
	// CreatedAt is when the session record was created.
	CreatedAt time.Time `json:"created_at"`
}

// Authenticated returns true if the session holds a usable backend credential.
func (s *Session) Authenticated() bool {
	return s != nil && s.State == SessionPresent && s.Token != ""
}

// Degraded returns true if the user signed in with the identity provider
// but no backend credential was obtained.
func (s *Session) Degraded() bool {
	return s != nil && s.State == SessionAbsent && s.Email != ""
}

// PresentSession builds a session holding a backend credential.
func PresentSession(token string, user User) *Session {
	return &Session{
		State:     SessionPresent,
		Token:     token,
		User:      user,
		Email:     user.Email,
		CreatedAt: time.Now(),
	}
}

// AbsentSession builds a session without a backend credential.
// The email may be empty when no identity was obtainable at all.
func AbsentSession(email, reason string) *Session {
	return &Session{
		State:     SessionAbsent,
		Email:     email,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
}
