package core

import "errors"

// Sentinel errors for the animation core. All are local and non-fatal; the
// engine never aborts the host process over any of these. Callers classify
// with errors.Is after unwrapping.
var (
	// ErrConfiguration covers invalid BPM, empty keyframe lists, malformed
	// YAML documents and similar. Always rejected before any mutation.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrBusy is returned for a re-entrant start on a running sequence or an
	// overlapping target-group claim. The rejected call changes no state.
	ErrBusy = errors.New("target group busy")

	// ErrMissingTarget means a required entity or pivot candidate is absent
	// from the scene registry. Validated before any mutation.
	ErrMissingTarget = errors.New("missing target")

	// ErrRenderSync means the external renderer declined a redraw request.
	// Counted and continued; logical state is never rolled back over it.
	ErrRenderSync = errors.New("render sync failed")
)
