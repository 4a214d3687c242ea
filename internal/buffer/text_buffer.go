// internal/buffer/text_buffer.go
package buffer

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/bethropolis/treesync/internal/event"
	"github.com/bethropolis/treesync/internal/textpos"
)

// TextBuffer is the standard Buffer implementation. It stores the full text as
// a single UTF-8 byte slice and notifies subscribers around every mutation:
// TypeBufferBeforeChange fires with the character range about to be replaced,
// then the text is spliced, then TypeBufferAfterChange fires with the new end
// of the changed region and the character length of what was removed. The
// before notification for a mutation always completes before the after
// notification begins, and mutations never overlap (single-threaded model).
type TextBuffer struct {
	content  []byte
	filePath string
	modified bool
	events   *event.Manager
}

// NewTextBuffer creates an empty buffer.
func NewTextBuffer() *TextBuffer {
	return &TextBuffer{
		content: []byte{},
		events:  event.NewManager(),
	}
}

// Load reads a file into the buffer, replacing existing content.
// A missing file yields an empty buffer bound to that path.
func (tb *TextBuffer) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			tb.content = []byte{}
			tb.filePath = filePath
			tb.modified = false
			return nil
		}
		return fmt.Errorf("failed to open file '%s': %w", filePath, err)
	}

	tb.content = data
	tb.filePath = filePath
	tb.modified = false
	return nil
}

// Save writes the buffer content to filePath, or the stored path if empty.
func (tb *TextBuffer) Save(filePath string) error {
	path := tb.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}

	if err := os.WriteFile(path, tb.content, 0644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}

	tb.filePath = path
	tb.modified = false
	return nil
}

// Bytes returns the full underlying text, never a restricted view of it.
// Callers must not mutate the returned slice.
func (tb *TextBuffer) Bytes() []byte {
	return tb.content
}

// FilePath returns the path the buffer was loaded from or saved to.
func (tb *TextBuffer) FilePath() string {
	return tb.filePath
}

// IsModified returns true if the buffer has unsaved changes.
func (tb *TextBuffer) IsModified() bool {
	return tb.modified
}

// Len returns the buffer length in characters.
func (tb *TextBuffer) Len() int {
	return utf8.RuneCount(tb.content)
}

// Events returns the buffer's notification bus.
func (tb *TextBuffer) Events() *event.Manager {
	return tb.events
}

// Slice returns a copy of the text in the character range [beg, end).
func (tb *TextBuffer) Slice(beg, end int) ([]byte, error) {
	if err := tb.checkRange(beg, end); err != nil {
		return nil, err
	}
	begByte := textpos.ByteOffset(tb.content, beg)
	endByte := textpos.ByteOffset(tb.content, end)
	out := make([]byte, endByte-begByte)
	copy(out, tb.content[begByte:endByte])
	return out, nil
}

// Insert inserts text at the given character offset.
func (tb *TextBuffer) Insert(off int, text []byte) error {
	return tb.Replace(off, off, text)
}

// Delete removes the character range [beg, end).
func (tb *TextBuffer) Delete(beg, end int) error {
	return tb.Replace(beg, end, nil)
}

// Replace substitutes the character range [beg, end) with text. This is the
// single mutation primitive; Insert and Delete are degenerate cases of it.
func (tb *TextBuffer) Replace(beg, end int, text []byte) error {
	if err := tb.checkRange(beg, end); err != nil {
		return err
	}

	tb.events.Dispatch(event.TypeBufferBeforeChange, event.BufferBeforeChangeData{
		Beg: beg,
		End: end,
	})

	begByte := textpos.ByteOffset(tb.content, beg)
	endByte := textpos.ByteOffset(tb.content, end)

	spliced := make([]byte, 0, len(tb.content)-int(endByte-begByte)+len(text))
	spliced = append(spliced, tb.content[:begByte]...)
	spliced = append(spliced, text...)
	spliced = append(spliced, tb.content[endByte:]...)
	tb.content = spliced
	tb.modified = true

	tb.events.Dispatch(event.TypeBufferAfterChange, event.BufferAfterChangeData{
		Beg:    beg,
		NewEnd: beg + utf8.RuneCount(text),
		OldLen: end - beg,
	})

	return nil
}

func (tb *TextBuffer) checkRange(beg, end int) error {
	if beg < 0 || end < beg || end > tb.Len() {
		return fmt.Errorf("invalid character range [%d, %d) for buffer of length %d", beg, end, tb.Len())
	}
	return nil
}

// Ensure TextBuffer satisfies the Buffer interface.
var _ Buffer = (*TextBuffer)(nil)
