package domain

// ResourceStatus tags a document undergoing an upload or delete while the
// backend's object storage and catalog converge. Statuses are mutated only
// by the convergence poller and never regress from a terminal state.
type ResourceStatus int

const (
	// StatusUntracked means the resource was never submitted to the poller.
	StatusUntracked ResourceStatus = iota
	// StatusUploading means an upload was submitted and has not converged.
	StatusUploading
	// StatusUploaded is the terminal state for the create flow.
	StatusUploaded
	// StatusDeleting means a delete was submitted and has not converged.
	StatusDeleting
	// StatusDeleted is the terminal state for the delete flow.
	StatusDeleted
)

// String returns the string representation of the status.
func (s ResourceStatus) String() string {
	switch s {
	case StatusUntracked:
		return "untracked"
	case StatusUploading:
		return "uploading"
	case StatusUploaded:
		return "uploaded"
	case StatusDeleting:
		return "deleting"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Terminal returns true once the status can no longer change.
func (s ResourceStatus) Terminal() bool {
	return s == StatusUploaded || s == StatusDeleted
}

// Pending returns true while the poller is still waiting for convergence.
func (s ResourceStatus) Pending() bool {
	return s == StatusUploading || s == StatusDeleting
}

// ConvergenceCheck is one observation of a document's backend state, as
// reported by the status endpoint. Storage and catalog writes are not
// atomic on the backend, so the two flags can disagree for a window.
type ConvergenceCheck struct {
	// Available is the backend's own judgement of usability.
	Available bool `json:"available"`
	// ExistsInStorage reports presence of the object-storage blob.
	ExistsInStorage bool `json:"exists_in_storage"`
	// ExistsInDB reports presence of the catalog record.
	ExistsInDB bool `json:"exists_in_db"`
}

// UploadConverged returns true when both layers agree the document exists.
func (c ConvergenceCheck) UploadConverged() bool {
	return c.ExistsInStorage && c.ExistsInDB
}

// DeleteConverged returns true when the catalog entry is gone. A missing
// catalog entry makes storage unobservable, so it is treated as sufficient
// proof of deletion; storage cleanup is asserted, not verified.
func (c ConvergenceCheck) DeleteConverged() bool {
	return !c.ExistsInDB
}
