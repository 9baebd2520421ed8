package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MaxUploadSize is the largest file the client will submit, in bytes.
// Oversized files are rejected before any network call is made.
const MaxUploadSize = 10 << 20 // 10 MiB

// allowedExtensions lists the file types the backend can ingest.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".doc":  true,
	".docx": true,
	".csv":  true,
	".json": true,
}

// Document is the client's view of a knowledge-base document.
// The backend owns the durable record; this is a read-through mirror.
type Document struct {
	// ID is the backend-assigned identifier.
	ID string `json:"id"`
	// Title is the human-readable title (original filename for uploads).
	Title string `json:"title"`
	// Category groups documents ("Backend", "HR", ...).
	Category string `json:"category"`
	// CustomCategory holds the free-form label when Category is "custom".
	CustomCategory string `json:"custom_category,omitempty"`
	// CompanyDoc marks documents shared with the whole organisation.
	CompanyDoc bool `json:"is_company_doc"`
	// OwnerID is the uploading user's backend id.
	OwnerID string `json:"owner_id,omitempty"`
	// Size is the stored size in bytes, when the backend reports it.
	Size int64 `json:"size,omitempty"`
	// ContentType is the stored MIME type.
	ContentType string `json:"content_type,omitempty"`
	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the document record last changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentPage is one page of a document listing.
type DocumentPage struct {
	// Documents are the entries for this page.
	Documents []Document
	// Total is the backend's count across all pages.
	Total int
}

// ViewURL is a short-lived link for viewing a document's content.
type ViewURL struct {
	// URL is the presigned location.
	URL string `json:"url"`
	// ExpiresIn is the lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

// ValidateUpload applies the client-side upload policy: bounded size and
// an allow-listed extension. It runs before any network call so oversized
// or unsupported files never reach the backend.
func ValidateUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: file type %q is not supported", ErrInvalidInput, ext)
	}
	if size <= 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: file is %.1f MB, limit is %d MB",
			ErrInvalidInput, float64(size)/(1<<20), MaxUploadSize/(1<<20))
	}
	return nil
}

// AllowedExtensions returns the supported upload extensions, for display.
func AllowedExtensions() []string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	return exts
}
