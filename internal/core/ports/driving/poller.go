package driving

import (
	"context"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// StatusPoller resolves the eventual-consistency window between the
// backend's object storage and its catalog after an upload or delete.
// Each tracked id is polled independently; tracking one id never blocks
// another.
type StatusPoller interface {
	// AwaitUpload marks the id as uploading and polls until the backend
	// reports the document in both storage and catalog, or the attempt
	// budget is exhausted. Returns domain.ErrNotConverged on exhaustion,
	// leaving the status in its last non-terminal state.
	AwaitUpload(ctx context.Context, id string) error

	// AwaitDeletion marks the id as deleting and polls until the catalog
	// entry is gone (a not-found status query also counts), or the attempt
	// budget is exhausted.
	AwaitDeletion(ctx context.Context, id string) error

	// Status returns the current tracked status for an id.
	Status(id string) domain.ResourceStatus
}
