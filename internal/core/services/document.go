package services

import (
	"context"
	"fmt"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
	"github.com/atlas-kb/atlas-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages knowledge-base documents: listing, uploads,
// inline creation and deletion, with convergence tracking on every mutation.
type DocumentService struct {
	backend driven.Backend
	poller  driving.StatusPoller
	state   *State
}

// NewDocumentService creates a document service.
func NewDocumentService(backend driven.Backend, poller driving.StatusPoller, state *State) *DocumentService {
	return &DocumentService{
		backend: backend,
		poller:  poller,
		state:   state,
	}
}

// List returns one page of documents for the active scope.
func (d *DocumentService) List(ctx context.Context, limit, offset int) (*domain.DocumentPage, error) {
	page, err := d.backend.ListDocuments(ctx, driven.ListOptions{
		Scope:  d.state.Scope(),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return page, nil
}

// Upload validates the file client-side, submits it and starts convergence
// tracking. Oversized or unsupported files are rejected before any network
// call, so no poller entry is ever created for them.
func (d *DocumentService) Upload(ctx context.Context, opts driving.UploadOptions) (*domain.Document, error) {
	if err := domain.ValidateUpload(opts.Filename, opts.Size); err != nil {
		return nil, err
	}

	doc, err := d.backend.UploadDocument(ctx, driven.UploadRequest{
		Filename:       opts.Filename,
		Content:        opts.Content,
		Size:           opts.Size,
		Category:       opts.Category,
		CustomCategory: opts.CustomCategory,
		CompanyDoc:     opts.CompanyDoc,
	})
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	d.track(doc.ID, domain.StatusUploading, d.poller.AwaitUpload)
	return doc, nil
}

// CreateNote creates a document from inline content and starts tracking.
func (d *DocumentService) CreateNote(ctx context.Context, opts driving.CreateNoteOptions) (*domain.Document, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if opts.Content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	doc, err := d.backend.CreateDocument(ctx, driven.CreateDocumentRequest{
		Title:          opts.Title,
		Category:       opts.Category,
		CustomCategory: opts.CustomCategory,
		Content:        opts.Content,
		CompanyDoc:     opts.CompanyDoc,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	d.track(doc.ID, domain.StatusUploading, d.poller.AwaitUpload)
	return doc, nil
}

// Delete removes a document and starts delete-convergence tracking.
// A failed delete call surfaces immediately and nothing is tracked.
func (d *DocumentService) Delete(ctx context.Context, id string) error {
	if err := d.backend.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	d.track(id, domain.StatusDeleting, d.poller.AwaitDeletion)
	return nil
}

// ViewURL returns a short-lived link to the document content.
func (d *DocumentService) ViewURL(ctx context.Context, id string) (*domain.ViewURL, error) {
	url, err := d.backend.DocumentViewURL(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("view url: %w", err)
	}
	return url, nil
}

// Status returns the tracked convergence status for a document id.
func (d *DocumentService) Status(id string) domain.ResourceStatus {
	return d.state.Status(id)
}

// track marks the id with its pending status and starts convergence polling
// in its own goroutine. The pending tag is written before the goroutine
// starts, so Status reflects the mutation the moment the call returns. The
// poller owns a fresh context: convergence tracking outlives the UI action
// that started it and runs to convergence or budget exhaustion.
func (d *DocumentService) track(id string, pending domain.ResourceStatus, await func(context.Context, string) error) {
	d.state.SetStatus(id, pending)
	go func() {
		if err := await(context.Background(), id); err != nil {
			logger.Warn("convergence tracking for %s: %v", id, err)
		}
	}()
}
