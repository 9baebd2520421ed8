package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors represent business and backend failures.
// Adapters translate transport outcomes into these so the presentation
// layer never inspects HTTP status codes.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBackendUnreachable indicates the backend could not be reached
	// (connection refused, DNS failure, timeout).
	ErrBackendUnreachable = errors.New("backend unreachable")

	// ErrCredentialExpired indicates the backend rejected the session
	// credential. The user must re-authenticate; callers never retry.
	ErrCredentialExpired = errors.New("session expired - please sign in again")

	// ErrPermissionDenied indicates the backend refused the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrBadRequest indicates the backend rejected the request as malformed.
	ErrBadRequest = errors.New("bad request")

	// ErrServerError indicates a backend-side failure (HTTP 5xx).
	ErrServerError = errors.New("server error")

	// ErrDomainRejected indicates the identity's email domain is not
	// allowed by backend policy. Fatal to sign-in: no session is created.
	ErrDomainRejected = errors.New("email domain not allowed")

	// ErrNoIdentity indicates sign-in produced neither an ID token nor a
	// verified email address.
	ErrNoIdentity = errors.New("no verifiable identity")

	// ErrNotSignedIn indicates an operation requires a backend session.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrNotConverged indicates the status poller exhausted its attempt
	// budget before storage and catalog agreed.
	ErrNotConverged = errors.New("status did not converge")
)

// ValidationError carries per-field messages from an HTTP 422 response.
type ValidationError struct {
	// Fields maps field names to their validation messages.
	Fields map[string]string
}

// Error joins the field messages into a single human-readable string.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
