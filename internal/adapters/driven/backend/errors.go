package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// errorResponse is the backend's error body. The detail field is either a
// plain string or, on 422 responses, a list of per-field entries.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// fieldError is one entry of a 422 detail list.
type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// classify translates an HTTP failure response into a domain error.
// Transport-level failures are handled at the call sites; this only sees
// responses that arrived with a non-2xx status. No retry happens here or
// anywhere in this package; callers decide what to do with the error.
func classify(statusCode int, body []byte) error {
	detail := errorDetail(body)

	switch {
	case statusCode == http.StatusUnauthorized:
		return domain.ErrCredentialExpired
	case statusCode == http.StatusForbidden:
		return wrapDetail(domain.ErrPermissionDenied, detail)
	case statusCode == http.StatusNotFound:
		return wrapDetail(domain.ErrNotFound, detail)
	case statusCode == http.StatusBadRequest:
		return wrapDetail(domain.ErrBadRequest, detail)
	case statusCode == http.StatusUnprocessableEntity:
		return validationError(body, detail)
	case statusCode >= http.StatusInternalServerError:
		return wrapDetail(domain.ErrServerError, detail)
	default:
		if detail != "" {
			return fmt.Errorf("backend error (status %d): %s", statusCode, detail)
		}
		return fmt.Errorf("backend error (status %d)", statusCode)
	}
}

// wrapDetail attaches the server-supplied detail to a domain sentinel,
// keeping errors.Is matching intact.
func wrapDetail(sentinel error, detail string) error {
	if detail == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}

// errorDetail extracts the human-readable detail string from an error body.
func errorDetail(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(resp.Detail, &s); err == nil {
		return s
	}

	// Detail list: join the messages for display.
	var fields []fieldError
	if err := json.Unmarshal(resp.Detail, &fields); err == nil {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			msgs = append(msgs, f.Msg)
		}
		return strings.Join(msgs, "; ")
	}
	return strings.TrimSpace(string(resp.Detail))
}

// validationError builds a per-field domain.ValidationError from a 422
// body. Bodies without a parseable field list fall back to a single
// message under a generic key.
func validationError(body []byte, detail string) error {
	var resp errorResponse
	fields := make(map[string]string)

	if err := json.Unmarshal(body, &resp); err == nil && len(resp.Detail) > 0 {
		var entries []fieldError
		if err := json.Unmarshal(resp.Detail, &entries); err == nil {
			for _, e := range entries {
				fields[fieldName(e.Loc)] = e.Msg
			}
		}
	}
	if len(fields) == 0 && detail != "" {
		fields["request"] = detail
	}
	return &domain.ValidationError{Fields: fields}
}

// fieldName renders a detail-entry location path ("body", "title") as the
// offending field's name, skipping the leading source segment.
func fieldName(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, p := range loc {
		if i == 0 {
			if s, ok := p.(string); ok && (s == "body" || s == "query" || s == "path") {
				continue
			}
		}
		parts = append(parts, fmt.Sprintf("%v", p))
	}
	if len(parts) == 0 {
		return "request"
	}
	return strings.Join(parts, ".")
}

// verifyError upgrades a permission error from the identity-verification
// endpoints to the domain-policy sentinel. Those endpoints only refuse a
// request when the email domain falls outside backend policy, which is
// fatal to sign-in; a 403 anywhere else stays a plain permission problem.
func verifyError(err error) error {
	if err == nil || !errors.Is(err, domain.ErrPermissionDenied) {
		return err
	}
	detail := strings.TrimPrefix(err.Error(), domain.ErrPermissionDenied.Error())
	return fmt.Errorf("%w%s", domain.ErrDomainRejected, detail)
}
