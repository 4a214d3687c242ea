package tracker

import "errors"

var (
	// ErrNoLanguage is a configuration error: no grammar could be resolved
	// for the buffer. Fatal to an enable attempt, never auto-retried.
	ErrNoLanguage = errors.New("no language registered for this context")

	// ErrInvariant marks an internal defect in edit tracking, such as a
	// post-mutation callback arriving without a matching snapshot or edit
	// coordinates that contradict each other. The current reparse is aborted
	// and the last known-good tree is preserved.
	ErrInvariant = errors.New("edit tracking invariant violated")
)
