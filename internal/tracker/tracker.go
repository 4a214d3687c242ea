// Package tracker keeps a buffer's syntax tree continuously synchronized with
// its content. It observes the buffer's pre/post mutation notifications,
// reconstructs the edit descriptor the parser engine needs, drives incremental
// reparses, and owns the per-buffer enable/disable lifecycle, including the
// cascading teardown of dependent features.
//
// Everything here runs synchronously on the caller's goroutine: the buffer's
// before-change notification for an edit completes before the after-change
// notification begins, and reentrant edits from inside a callback are not
// supported.
package tracker

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/treesync/internal/buffer"
	"github.com/bethropolis/treesync/internal/event"
	"github.com/bethropolis/treesync/internal/lang"
	"github.com/bethropolis/treesync/internal/logger"
	"github.com/bethropolis/treesync/internal/textpos"
	"github.com/bethropolis/treesync/internal/types"
)

// State is the lifecycle state of a tracker.
type State int

const (
	StateDisabled State = iota
	StateEnabling
	StateEnabled
)

// Tracker owns the parse state for exactly one buffer: the current tree, the
// parser instance bound to the buffer's language, and the transient pending
// edit between a mutation's before/after notifications. It is never shared
// across buffers.
type Tracker struct {
	buf    buffer.Buffer
	events *event.Manager

	state  State
	lang   *lang.Language
	parser *sitter.Parser
	tree   *sitter.Tree

	pending pendingEdit

	beforeID event.HandlerID
	afterID  event.HandlerID

	features map[string]*featureState
	reparses int
}

// New creates a tracker for buf, initially disabled.
func New(buf buffer.Buffer) *Tracker {
	return &Tracker{
		buf:      buf,
		events:   event.NewManager(),
		features: make(map[string]*featureState),
	}
}

// Events returns the tracker's notification bus (tree-updated, first-parse,
// before-disable, mode enabled/disabled).
func (t *Tracker) Events() *event.Manager {
	return t.events
}

// State returns the current lifecycle state.
func (t *Tracker) State() State {
	return t.state
}

// Tree returns the current syntax tree, or nil before the first parse.
func (t *Tracker) Tree() *sitter.Tree {
	return t.tree
}

// LanguageName returns the resolved grammar name, or "" while disabled.
func (t *Tracker) LanguageName() string {
	if t.lang == nil {
		return ""
	}
	return t.lang.Name
}

// Reparses returns how many parses have completed since the tracker was created.
func (t *Tracker) Reparses() int {
	return t.reparses
}

// SetLanguage pins the grammar to use instead of resolving one from the
// buffer's file path. Only honored while disabled; Disable clears it again.
func (t *Tracker) SetLanguage(l *lang.Language) {
	if t.state == StateDisabled {
		t.lang = l
	}
}

// Enable turns on change tracking for the buffer: resolves the language if
// needed, creates and binds the parser, installs the mutation observers, and
// runs the initial full parse. If any step fails, every completed step is
// rolled back and the tracker stays disabled. Enabling an already-enabled
// tracker is a no-op.
func (t *Tracker) Enable() error {
	if t.state == StateEnabled {
		return nil
	}
	t.state = StateEnabling

	var rb rollback
	ok := false
	defer func() {
		if !ok {
			rb.run()
			t.state = StateDisabled
		}
	}()

	if t.lang == nil {
		l := lang.GetForFile(t.buf.FilePath(), t.buf.Bytes())
		if l == nil {
			return fmt.Errorf("%w (%q)", ErrNoLanguage, t.buf.FilePath())
		}
		t.lang = l
		rb.add(func() { t.lang = nil })
	}

	if t.parser == nil {
		p := sitter.NewParser()
		p.SetLanguage(t.lang.Sitter)
		t.parser = p
		rb.add(func() {
			t.parser.Close()
			t.parser = nil
		})
	}

	t.beforeID = t.buf.Events().Subscribe(event.TypeBufferBeforeChange, t.onBeforeChange)
	rb.add(func() { t.buf.Events().Unsubscribe(event.TypeBufferBeforeChange, t.beforeID) })
	t.afterID = t.buf.Events().Subscribe(event.TypeBufferAfterChange, t.onAfterChange)
	rb.add(func() { t.buf.Events().Unsubscribe(event.TypeBufferAfterChange, t.afterID) })

	t.state = StateEnabled
	t.events.Dispatch(event.TypeModeEnabled, event.ModeEnabledData{Language: t.lang.Name})

	if err := t.reparse(nil); err != nil {
		// A failed initial parse leaves no tree to keep current; treat it as
		// an enable failure and unwind completely.
		return fmt.Errorf("initial parse: %w", err)
	}

	ok = true
	t.events.Dispatch(event.TypeFirstParse, event.FirstParseData{Tree: t.tree})
	logger.Debugf("tracker: enabled (%s) for %q", t.lang.Name, t.buf.FilePath())
	return nil
}

// MaybeEnable opportunistically enables tracking, swallowing only the
// no-language configuration error. Invariant violations still propagate.
func (t *Tracker) MaybeEnable() error {
	err := t.Enable()
	if errors.Is(err, ErrNoLanguage) {
		logger.Debugf("tracker: skipping %q: %v", t.buf.FilePath(), err)
		return nil
	}
	return err
}

// Disable tears tracking down: dependent features unwind first via the
// before-disable notification, then the mutation observers are removed and
// tree, parser and language are cleared. Safe to call when already disabled,
// and never fails.
func (t *Tracker) Disable() {
	if t.state != StateEnabled {
		return
	}

	t.events.Dispatch(event.TypeBeforeDisable, event.BeforeDisableData{})
	for name, fs := range t.features {
		t.events.Unsubscribe(event.TypeBeforeDisable, fs.hookID)
		delete(t.features, name)
	}

	t.buf.Events().Unsubscribe(event.TypeBufferBeforeChange, t.beforeID)
	t.buf.Events().Unsubscribe(event.TypeBufferAfterChange, t.afterID)
	t.pending = pendingEdit{}

	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
	if t.parser != nil {
		t.parser.Close()
		t.parser = nil
	}
	t.lang = nil

	t.state = StateDisabled
	t.events.Dispatch(event.TypeModeDisabled, event.ModeDisabledData{})
	logger.Debugf("tracker: disabled for %q", t.buf.FilePath())
}

// NodeAt returns the most specific named node covering a zero-width range at
// the given character offset, or nil before the first parse.
func (t *Tracker) NodeAt(charOffset int) *sitter.Node {
	if t.tree == nil {
		return nil
	}
	pt := textpos.PointAt(t.buf.Bytes(), charOffset)
	return t.tree.RootNode().NamedDescendantForPointRange(pt, pt)
}

func (t *Tracker) onBeforeChange(e event.Event) bool {
	d, ok := e.Data.(event.BufferBeforeChangeData)
	if !ok {
		return false
	}
	t.captureEdit(d.Beg, d.End)
	return false
}

func (t *Tracker) onAfterChange(e event.Event) bool {
	d, ok := e.Data.(event.BufferAfterChangeData)
	if !ok {
		return false
	}
	if err := t.afterChange(d.Beg, d.NewEnd, d.OldLen); err != nil {
		// Fail loudly but keep the last known-good tree.
		logger.Errorf("tracker: reparse after change at %d aborted: %v", d.Beg, err)
	}
	return false
}

// afterChange builds the edit descriptor for a completed mutation and drives
// the incremental reparse. With no prior tree there is nothing to edit; the
// snapshot is discarded and a full parse brings the tracker current.
func (t *Tracker) afterChange(beg, newEnd, oldLen int) error {
	if t.tree == nil {
		t.pending = pendingEdit{}
		return t.reparse(nil)
	}

	edit, err := t.buildEdit(beg, newEnd, oldLen)
	if err != nil {
		return err
	}
	return t.reparse(&edit)
}

// reparse applies the edit descriptor (if any) to the prior tree, invokes the
// incremental parse with the prior tree as a hint, swaps in the new tree, and
// publishes (old, new) to observers. The replaced tree is released only after
// every observer has run.
func (t *Tracker) reparse(edit *types.EditInfo) error {
	if t.parser == nil {
		return fmt.Errorf("%w: reparse without a parser", ErrInvariant)
	}

	src := t.buf.Bytes()
	if t.tree != nil && edit != nil {
		t.tree.Edit(edit.Input())
	}

	newTree, err := t.parser.ParseCtx(context.Background(), t.tree, src)
	if err != nil {
		return fmt.Errorf("%w: parse failed: %v", ErrInvariant, err)
	}

	old := t.tree
	t.tree = newTree
	t.reparses++

	t.events.Dispatch(event.TypeTreeUpdated, event.TreeUpdatedData{OldTree: old, NewTree: newTree})
	if old != nil && old != newTree {
		old.Close()
	}
	return nil
}
