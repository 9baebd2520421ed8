package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// recordingPoller records which ids were tracked, without real polling.
type recordingPoller struct {
	mu        sync.Mutex
	uploads   []string
	deletions []string
	statuses  map[string]domain.ResourceStatus
}

var _ driving.StatusPoller = (*recordingPoller)(nil)

func newRecordingPoller() *recordingPoller {
	return &recordingPoller{statuses: make(map[string]domain.ResourceStatus)}
}

func (r *recordingPoller) AwaitUpload(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, id)
	r.statuses[id] = domain.StatusUploaded
	return nil
}

func (r *recordingPoller) AwaitDeletion(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletions = append(r.deletions, id)
	r.statuses[id] = domain.StatusDeleted
	return nil
}

func (r *recordingPoller) Status(id string) domain.ResourceStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statuses[id]
}

func (r *recordingPoller) trackedUploads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.uploads...)
}

func (r *recordingPoller) trackedDeletions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deletions...)
}

func TestDocumentUpload_AcceptsValidFileAndTracks(t *testing.T) {
	poller := newRecordingPoller()
	backend := &stubBackend{
		uploadDocumentFn: func(_ context.Context, req driven.UploadRequest) (*domain.Document, error) {
			assert.Equal(t, "report.pdf", req.Filename)
			assert.Equal(t, int64(5<<20), req.Size)
			return &domain.Document{ID: "doc-1", Title: "report.pdf"}, nil
		},
	}
	svc := NewDocumentService(backend, poller, NewState(domain.ScopeAll))

	doc, err := svc.Upload(context.Background(), driving.UploadOptions{
		Filename: "report.pdf",
		Content:  strings.NewReader("content"),
		Size:     5 << 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)

	// track() runs in its own goroutine.
	assert.Eventually(t, func() bool {
		tracked := poller.trackedUploads()
		return len(tracked) == 1 && tracked[0] == "doc-1"
	}, time.Second, time.Millisecond)
}

func TestDocumentUpload_PendingStatusVisibleImmediately(t *testing.T) {
	// The uploading tag is written before the polling goroutine starts, so
	// a status check right after Upload returns never reports untracked.
	backend := &stubBackend{
		uploadDocumentFn: func(_ context.Context, _ driven.UploadRequest) (*domain.Document, error) {
			return &domain.Document{ID: "doc-1", Title: "report.pdf"}, nil
		},
		documentStatusFn: func(_ context.Context, _ string) (*domain.ConvergenceCheck, error) {
			return &domain.ConvergenceCheck{}, nil // never converges
		},
	}
	state := NewState(domain.ScopeAll)
	poller := NewConvergencePoller(backend, state, PollerConfig{Attempts: 2, Interval: time.Hour})
	svc := NewDocumentService(backend, poller, state)

	doc, err := svc.Upload(context.Background(), driving.UploadOptions{
		Filename: "report.pdf",
		Content:  strings.NewReader("content"),
		Size:     1 << 20,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusUploading, svc.Status(doc.ID))
}

func TestDocumentDelete_PendingStatusVisibleImmediately(t *testing.T) {
	backend := &stubBackend{
		documentStatusFn: func(_ context.Context, _ string) (*domain.ConvergenceCheck, error) {
			return &domain.ConvergenceCheck{ExistsInStorage: true, ExistsInDB: true}, nil
		},
	}
	state := NewState(domain.ScopeAll)
	poller := NewConvergencePoller(backend, state, PollerConfig{Attempts: 2, Interval: time.Hour})
	svc := NewDocumentService(backend, poller, state)

	require.NoError(t, svc.Delete(context.Background(), "doc-9"))

	assert.Equal(t, domain.StatusDeleting, svc.Status("doc-9"))
}

func TestDocumentUpload_RejectsOversizedFileBeforeNetwork(t *testing.T) {
	poller := newRecordingPoller()
	called := false
	backend := &stubBackend{
		uploadDocumentFn: func(_ context.Context, _ driven.UploadRequest) (*domain.Document, error) {
			called = true
			return &domain.Document{ID: "doc-1"}, nil
		},
	}
	svc := NewDocumentService(backend, poller, NewState(domain.ScopeAll))

	_, err := svc.Upload(context.Background(), driving.UploadOptions{
		Filename: "big.pdf",
		Content:  strings.NewReader("content"),
		Size:     12 << 20,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, called, "oversized file must never reach the backend")
	assert.Empty(t, poller.trackedUploads())
}

func TestDocumentUpload_RejectsUnsupportedExtension(t *testing.T) {
	poller := newRecordingPoller()
	svc := NewDocumentService(&stubBackend{}, poller, NewState(domain.ScopeAll))

	_, err := svc.Upload(context.Background(), driving.UploadOptions{
		Filename: "demo.exe",
		Content:  strings.NewReader("content"),
		Size:     100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, poller.trackedUploads())
}

func TestDocumentUpload_BackendFailureTracksNothing(t *testing.T) {
	poller := newRecordingPoller()
	backend := &stubBackend{
		uploadDocumentFn: func(_ context.Context, _ driven.UploadRequest) (*domain.Document, error) {
			return nil, domain.ErrServerError
		},
	}
	svc := NewDocumentService(backend, poller, NewState(domain.ScopeAll))

	_, err := svc.Upload(context.Background(), driving.UploadOptions{
		Filename: "report.pdf",
		Content:  strings.NewReader("content"),
		Size:     100,
	})
	assert.ErrorIs(t, err, domain.ErrServerError)
	assert.Empty(t, poller.trackedUploads())
}

func TestDocumentCreateNote_RequiresTitleAndContent(t *testing.T) {
	svc := NewDocumentService(&stubBackend{}, newRecordingPoller(), NewState(domain.ScopeAll))

	_, err := svc.CreateNote(context.Background(), driving.CreateNoteOptions{Content: "body"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateNote(context.Background(), driving.CreateNoteOptions{Title: "note"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentCreateNote_Tracks(t *testing.T) {
	poller := newRecordingPoller()
	backend := &stubBackend{
		createDocumentFn: func(_ context.Context, req driven.CreateDocumentRequest) (*domain.Document, error) {
			assert.Equal(t, "Team norms", req.Title)
			return &domain.Document{ID: "doc-2", Title: req.Title}, nil
		},
	}
	svc := NewDocumentService(backend, poller, NewState(domain.ScopeAll))

	doc, err := svc.CreateNote(context.Background(), driving.CreateNoteOptions{
		Title:   "Team norms",
		Content: "Be kind.",
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-2", doc.ID)

	assert.Eventually(t, func() bool {
		return len(poller.trackedUploads()) == 1
	}, time.Second, time.Millisecond)
}

func TestDocumentDelete_TracksDeletion(t *testing.T) {
	poller := newRecordingPoller()
	svc := NewDocumentService(&stubBackend{}, poller, NewState(domain.ScopeAll))

	require.NoError(t, svc.Delete(context.Background(), "doc-1"))

	assert.Eventually(t, func() bool {
		tracked := poller.trackedDeletions()
		return len(tracked) == 1 && tracked[0] == "doc-1"
	}, time.Second, time.Millisecond)
}

func TestDocumentDelete_FailureTracksNothing(t *testing.T) {
	poller := newRecordingPoller()
	backend := &stubBackend{
		deleteDocumentFn: func(_ context.Context, _ string) error {
			return domain.ErrPermissionDenied
		},
	}
	svc := NewDocumentService(backend, poller, NewState(domain.ScopeAll))

	err := svc.Delete(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Empty(t, poller.trackedDeletions())
}

func TestDocumentList_UsesActiveScope(t *testing.T) {
	state := NewState(domain.ScopeCompany)
	var got driven.ListOptions
	backend := &stubBackend{
		listDocumentsFn: func(_ context.Context, opts driven.ListOptions) (*domain.DocumentPage, error) {
			got = opts
			return &domain.DocumentPage{Total: 1, Documents: []domain.Document{{ID: "doc-1"}}}, nil
		},
	}
	svc := NewDocumentService(backend, newRecordingPoller(), state)

	page, err := svc.List(context.Background(), 20, 40)
	require.NoError(t, err)
	assert.Equal(t, domain.ScopeCompany, got.Scope)
	assert.Equal(t, 20, got.Limit)
	assert.Equal(t, 40, got.Offset)
	assert.Equal(t, 1, page.Total)
}

func TestDocumentViewURL(t *testing.T) {
	backend := &stubBackend{
		documentViewURLFn: func(_ context.Context, id string) (*domain.ViewURL, error) {
			assert.Equal(t, "doc-1", id)
			return &domain.ViewURL{URL: "https://storage.example.com/doc-1?sig=abc", ExpiresIn: 300}, nil
		},
	}
	svc := NewDocumentService(backend, newRecordingPoller(), NewState(domain.ScopeAll))

	url, err := svc.ViewURL(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Contains(t, url.URL, "doc-1")
	assert.Equal(t, 300, url.ExpiresIn)
}
