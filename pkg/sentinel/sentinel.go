package sentinel

import "errors"

// Sentinel errors for control-flow facts the coded error taxonomy does not
// cover. Workflows return these (optionally wrapped) so callers can branch
// with errors.Is instead of inspecting messages.
var (
	// ErrNotConfirmed reports that a destructive action was declined at the
	// confirmation step. Nothing was sent to the backend.
	ErrNotConfirmed = errors.New("not confirmed")
	// ErrStale reports that a response arrived after its originating view
	// was reset and its outcome was dropped.
	ErrStale = errors.New("stale response")
)
