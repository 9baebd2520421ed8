package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
	"github.com/atlas-kb/atlas-cli/internal/logger"
)

// Ensure ConvergencePoller implements the interface.
var _ driving.StatusPoller = (*ConvergencePoller)(nil)

// Default polling parameters: 30 attempts spaced 1s apart gives the backend
// a ~30s window to reconcile object storage with its catalog.
const (
	defaultPollAttempts = 30
	defaultPollInterval = time.Second
	defaultStatusGrace  = 3 * time.Second
)

// PollerConfig tunes the convergence loop. Zero values take the defaults.
type PollerConfig struct {
	// Attempts is the maximum number of status queries per resource.
	Attempts int
	// Interval is the wait between status queries.
	Interval time.Duration
	// Grace is how long a terminal status stays visible before the
	// tracking entry is removed.
	Grace time.Duration
}

// ConvergencePoller tracks per-document convergence after uploads and
// deletes. The backend does not make the object-storage write and the
// catalog insert atomic, so the client polls the status endpoint until the
// two agree or the attempt budget runs out. Each id is polled in its own
// call; polling one id never blocks another.
type ConvergencePoller struct {
	backend  driven.Backend
	state    *State
	attempts int
	interval time.Duration
	grace    time.Duration
}

// NewConvergencePoller creates a poller writing statuses into state.
func NewConvergencePoller(backend driven.Backend, state *State, cfg PollerConfig) *ConvergencePoller {
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultPollAttempts
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultPollInterval
	}
	if cfg.Grace <= 0 {
		cfg.Grace = defaultStatusGrace
	}
	return &ConvergencePoller{
		backend:  backend,
		state:    state,
		attempts: cfg.Attempts,
		interval: cfg.Interval,
		grace:    cfg.Grace,
	}
}

// AwaitUpload polls until the document exists in both storage and catalog.
func (p *ConvergencePoller) AwaitUpload(ctx context.Context, id string) error {
	p.state.SetStatus(id, domain.StatusUploading)
	return p.await(ctx, id, domain.StatusUploading, domain.StatusUploaded, p.uploadConverged)
}

// AwaitDeletion polls until the catalog entry is gone. A not-found error
// from the status query itself also counts as converged: the record the
// query would describe no longer exists.
func (p *ConvergencePoller) AwaitDeletion(ctx context.Context, id string) error {
	p.state.SetStatus(id, domain.StatusDeleting)
	return p.await(ctx, id, domain.StatusDeleting, domain.StatusDeleted, p.deleteConverged)
}

// Status returns the tracked status for a document id.
func (p *ConvergencePoller) Status(id string) domain.ResourceStatus {
	return p.state.Status(id)
}

// await runs the bounded retry loop with a single exit predicate.
// Transient query errors count as "not yet converged", never as failure.
func (p *ConvergencePoller) await(
	ctx context.Context,
	id string,
	pending, terminal domain.ResourceStatus,
	converged func(ctx context.Context, id string) bool,
) error {
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if converged(ctx, id) {
			p.finish(id, pending, terminal)
			return nil
		}

		// The last attempt is the final check: no wait after it, and the
		// status stays in its last non-terminal state. Success is never
		// fabricated.
		if attempt == p.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval):
		}
	}

	logger.Warn("document %s did not converge after %d attempts", id, p.attempts)
	return fmt.Errorf("%w: document %s still %s after %d attempts",
		domain.ErrNotConverged, id, p.state.Status(id), p.attempts)
}

// uploadConverged is the exit predicate for the create flow.
func (p *ConvergencePoller) uploadConverged(ctx context.Context, id string) bool {
	check, err := p.backend.DocumentStatus(ctx, id)
	if err != nil {
		logger.Debug("status check for %s: %v", id, err)
		return false
	}
	return check.UploadConverged()
}

// deleteConverged is the exit predicate for the delete flow.
func (p *ConvergencePoller) deleteConverged(ctx context.Context, id string) bool {
	check, err := p.backend.DocumentStatus(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true
		}
		logger.Debug("status check for %s: %v", id, err)
		return false
	}
	return check.DeleteConverged()
}

// finish records the terminal status and schedules removal of the tracking
// entry after the grace period, so the UI can show the final state briefly.
// A run whose pending tag was already replaced by a newer lifecycle (say a
// delete started while the upload was still polling) writes nothing.
func (p *ConvergencePoller) finish(id string, pending, terminal domain.ResourceStatus) {
	gen, ok := p.state.CompleteStatus(id, pending, terminal)
	if !ok {
		logger.Debug("document %s converged after being superseded, outcome discarded", id)
		return
	}
	logger.Debug("document %s converged: %s", id, terminal)

	time.AfterFunc(p.grace, func() {
		p.state.DropStatus(id, gen)
	})
}
