package domain

import "fmt"

// Scope filters which documents chat and document queries consider.
// It is the only piece of view state persisted across sessions.
type Scope string

const (
	// ScopeMine restricts queries to the user's own documents.
	ScopeMine Scope = "mine"
	// ScopeCompany restricts queries to the organisation's shared documents.
	ScopeCompany Scope = "company"
	// ScopeAll considers both personal and shared documents.
	ScopeAll Scope = "all"
)

// DefaultScope is used when no scope has been persisted yet.
const DefaultScope = ScopeAll

// Valid returns true for a known scope value.
func (s Scope) Valid() bool {
	switch s {
	case ScopeMine, ScopeCompany, ScopeAll:
		return true
	default:
		return false
	}
}

// String returns the scope's wire representation.
func (s Scope) String() string {
	return string(s)
}

// ParseScope converts a string into a Scope, rejecting unknown values.
func ParseScope(s string) (Scope, error) {
	scope := Scope(s)
	if !scope.Valid() {
		return "", fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, s)
	}
	return scope, nil
}
