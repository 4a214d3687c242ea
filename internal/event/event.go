// internal/event/event.go
package event

import sitter "github.com/smacker/go-tree-sitter"

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// Buffer mutation notifications. BeforeChange always fires (and completes)
	// before the matching AfterChange for the same mutation.
	TypeBufferBeforeChange // About to replace a character range
	TypeBufferAfterChange  // A character range was replaced

	// Sync lifecycle events
	TypeModeEnabled   // Tracking was enabled for a buffer
	TypeTreeUpdated   // A reparse produced a new tree
	TypeFirstParse    // First successful parse after enablement
	TypeBeforeDisable // Tracking is about to be torn down
	TypeModeDisabled  // Tracking was disabled
)

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// BufferBeforeChangeData describes the character range about to be replaced.
type BufferBeforeChangeData struct {
	Beg int // start of the region, character offset
	End int // end of the region (exclusive), character offset
}

// BufferAfterChangeData describes a completed replacement.
type BufferAfterChangeData struct {
	Beg    int // start of the changed region, character offset
	NewEnd int // end of the inserted text (exclusive), character offset
	OldLen int // character length of the text that was removed
}

// TreeUpdatedData carries the previous and current syntax trees.
// OldTree is nil only on the very first parse of a buffer. The old tree is
// released once all handlers have run; handlers must not retain it.
type TreeUpdatedData struct {
	OldTree *sitter.Tree
	NewTree *sitter.Tree
}

// FirstParseData carries the tree produced by the initial parse.
type FirstParseData struct {
	Tree *sitter.Tree
}

// ModeEnabledData identifies the language the buffer was bound to.
type ModeEnabledData struct {
	Language string
}

// BeforeDisableData is fired before teardown so dependent features can unwind.
type BeforeDisableData struct{}

// ModeDisabledData is fired after teardown completes.
type ModeDisabledData struct{}
