package driving

import (
	"context"
	"io"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// UploadOptions describe a file upload initiated by the user.
type UploadOptions struct {
	// Filename is the original file name.
	Filename string
	// Content is the file body.
	Content io.Reader
	// Size is the file size in bytes.
	Size int64
	// Category groups the document.
	Category string
	// CustomCategory holds the free-form label when Category is "custom".
	CustomCategory string
	// CompanyDoc shares the document with the whole organisation.
	CompanyDoc bool
}

// CreateNoteOptions describe an inline document creation.
type CreateNoteOptions struct {
	// Title is the document title.
	Title string
	// Category groups the document.
	Category string
	// CustomCategory holds the free-form label when Category is "custom".
	CustomCategory string
	// Content is the document body.
	Content string
	// CompanyDoc shares the document with the whole organisation.
	CompanyDoc bool
}

// DocumentService manages knowledge-base documents.
type DocumentService interface {
	// List returns one page of documents for the active scope.
	List(ctx context.Context, limit, offset int) (*domain.DocumentPage, error)

	// Upload validates the file client-side (size, extension), submits it,
	// and starts convergence tracking for the returned document id.
	// Validation failures occur before any network call.
	Upload(ctx context.Context, opts UploadOptions) (*domain.Document, error)

	// CreateNote creates a document from inline content and starts
	// convergence tracking.
	CreateNote(ctx context.Context, opts CreateNoteOptions) (*domain.Document, error)

	// Delete removes a document and starts delete-convergence tracking.
	Delete(ctx context.Context, id string) error

	// ViewURL returns a short-lived link to the document content.
	ViewURL(ctx context.Context, id string) (*domain.ViewURL, error)

	// Status returns the tracked convergence status for a document id.
	// Untracked ids report domain.StatusUntracked.
	Status(id string) domain.ResourceStatus
}
