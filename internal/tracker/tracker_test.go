package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/treesync/internal/buffer"
	"github.com/bethropolis/treesync/internal/event"
	"github.com/bethropolis/treesync/internal/lang"
)

func newTextBufferWith(t *testing.T, content string) *buffer.TextBuffer {
	t.Helper()
	buf := buffer.NewTextBuffer()
	require.NoError(t, buf.Insert(0, []byte(content)))
	return buf
}

func goLanguage(t *testing.T) *lang.Language {
	t.Helper()
	lang.RegisterDefaults()
	l := lang.GetByName("Go")
	require.NotNil(t, l)
	return l
}

// newGoTracker returns a buffer with the given content and a tracker pinned to
// the Go grammar, not yet enabled.
func newGoTracker(t *testing.T, content string) (*buffer.TextBuffer, *Tracker) {
	t.Helper()
	buf := newTextBufferWith(t, content)
	tr := New(buf)
	tr.SetLanguage(goLanguage(t))
	return buf, tr
}

func TestEnableFirstParse(t *testing.T) {
	_, tr := newGoTracker(t, "package main\n")

	var updates []event.TreeUpdatedData
	firstParses := 0
	tr.Events().Subscribe(event.TypeTreeUpdated, func(e event.Event) bool {
		updates = append(updates, e.Data.(event.TreeUpdatedData))
		return false
	})
	tr.Events().Subscribe(event.TypeFirstParse, func(e event.Event) bool {
		firstParses++
		return false
	})

	require.NoError(t, tr.Enable())

	assert.Equal(t, StateEnabled, tr.State())
	assert.Equal(t, "Go", tr.LanguageName())
	assert.Equal(t, 1, tr.Reparses())
	assert.Equal(t, 1, firstParses)
	require.Len(t, updates, 1)
	assert.Nil(t, updates[0].OldTree)
	require.NotNil(t, updates[0].NewTree)
	assert.Equal(t, "source_file", tr.Tree().RootNode().Type())
}

func TestEnableIdempotent(t *testing.T) {
	_, tr := newGoTracker(t, "package main\n")
	require.NoError(t, tr.Enable())
	require.NoError(t, tr.Enable())
	assert.Equal(t, 1, tr.Reparses())
	tr.Disable()
}

func TestDisableIdempotent(t *testing.T) {
	_, tr := newGoTracker(t, "package main\n")

	// Disabling a never-enabled tracker changes nothing and cannot fail.
	tr.Disable()
	assert.Equal(t, StateDisabled, tr.State())

	require.NoError(t, tr.Enable())
	tr.Disable()
	tr.Disable()
	assert.Equal(t, StateDisabled, tr.State())
	assert.Nil(t, tr.Tree())
	assert.Equal(t, "", tr.LanguageName())
}

func TestIncrementalReparse(t *testing.T) {
	buf, tr := newGoTracker(t, "package main\n")
	require.NoError(t, tr.Enable())
	defer tr.Disable()

	var updates []event.TreeUpdatedData
	tr.Events().Subscribe(event.TypeTreeUpdated, func(e event.Event) bool {
		updates = append(updates, e.Data.(event.TreeUpdatedData))
		return false
	})

	require.NoError(t, buf.Insert(buf.Len(), []byte("\nfunc f() {}\n")))

	assert.Equal(t, 2, tr.Reparses())
	require.Len(t, updates, 1)
	assert.NotNil(t, updates[0].OldTree)
	assert.NotNil(t, updates[0].NewTree)
	assert.Equal(t, "source_file", tr.Tree().RootNode().Type())
	assert.False(t, tr.Tree().RootNode().HasError())
}

func TestMultipleEditsStayInSync(t *testing.T) {
	buf, tr := newGoTracker(t, "package main\n\nfunc f() {}\n")
	require.NoError(t, tr.Enable())
	defer tr.Disable()

	require.NoError(t, buf.Replace(19, 20, []byte("g"))) // rename f to g
	require.NoError(t, buf.Insert(buf.Len(), []byte("\nfunc h() {}\n")))
	require.NoError(t, buf.Insert(0, []byte("// Package main.\n")))

	assert.Equal(t, 4, tr.Reparses())
	assert.False(t, tr.Tree().RootNode().HasError())
}

func TestEnableNoLanguage(t *testing.T) {
	lang.RegisterDefaults()
	buf := buffer.NewTextBuffer()
	require.NoError(t, buf.Insert(0, []byte("plain text")))
	tr := New(buf)

	err := tr.Enable()
	assert.ErrorIs(t, err, ErrNoLanguage)
	assert.Equal(t, StateDisabled, tr.State())
	assert.Nil(t, tr.Tree())

	// Rolled back completely: mutations reach no hooks.
	require.NoError(t, buf.Insert(0, []byte("x")))
	assert.Equal(t, 0, tr.Reparses())

	// The best-effort entry point swallows only the configuration error.
	assert.NoError(t, tr.MaybeEnable())
}

func TestDisableRemovesHooks(t *testing.T) {
	buf, tr := newGoTracker(t, "package main\n")
	require.NoError(t, tr.Enable())
	tr.Disable()

	require.NoError(t, buf.Insert(0, []byte("// c\n")))
	assert.Equal(t, 1, tr.Reparses())
}

func TestReenableAfterDisable(t *testing.T) {
	_, tr := newGoTracker(t, "package main\n")
	require.NoError(t, tr.Enable())
	tr.Disable()

	firstParses := 0
	tr.Events().Subscribe(event.TypeFirstParse, func(e event.Event) bool {
		firstParses++
		return false
	})

	// Disable cleared the language; a new cycle resolves or pins it again.
	tr.SetLanguage(lang.GetByName("Go"))
	require.NoError(t, tr.Enable())
	defer tr.Disable()

	assert.Equal(t, 1, firstParses)
	assert.Equal(t, 2, tr.Reparses())
	assert.NotNil(t, tr.Tree())
}

func TestNodeAt(t *testing.T) {
	_, tr := newGoTracker(t, "package main\n")

	assert.Nil(t, tr.NodeAt(2), "no tree before enable")

	require.NoError(t, tr.Enable())
	defer tr.Disable()

	node := tr.NodeAt(2)
	require.NotNil(t, node)
	assert.LessOrEqual(t, node.StartByte(), uint32(2))
	assert.GreaterOrEqual(t, node.EndByte(), uint32(2))
}
