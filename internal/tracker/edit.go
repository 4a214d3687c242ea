package tracker

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/treesync/internal/logger"
	"github.com/bethropolis/treesync/internal/textpos"
	"github.com/bethropolis/treesync/internal/types"
)

// pendingEdit captures the region about to be replaced, recorded just before
// the mutation is applied. It is a single-slot resource: capturing a new one
// discards any previous, unconsumed one, and consuming it clears it. A
// snapshot is only meaningful between the pre-mutation callback that created
// it and the single post-mutation callback that consumes it.
type pendingEdit struct {
	start int    // character offset where the captured region begins
	text  []byte // literal text occupying [start, end) before the mutation
	valid bool
}

// captureEdit records the snapshot for the character range [beg, end).
// It reads the full underlying text, never a restricted view of it.
func (t *Tracker) captureEdit(beg, end int) {
	snapshot, err := t.buf.Slice(beg, end)
	if err != nil {
		// A range the buffer itself rejects means the notification protocol
		// broke down; invalidate so the post-change side fails loudly.
		logger.Errorf("captureEdit: cannot snapshot [%d, %d): %v", beg, end, err)
		t.pending = pendingEdit{}
		return
	}
	t.pending = pendingEdit{start: beg, text: snapshot, valid: true}
}

// buildEdit combines the pending snapshot with post-mutation offsets into the
// six-coordinate edit descriptor the parser engine requires. It consumes the
// snapshot. beg and newEnd are character offsets into the current text;
// oldLen is the character length of the removed text.
func (t *Tracker) buildEdit(beg, newEnd, oldLen int) (types.EditInfo, error) {
	pe := t.pending
	t.pending = pendingEdit{}

	if !pe.valid {
		return types.EditInfo{}, fmt.Errorf("%w: post-change callback without a pending snapshot", ErrInvariant)
	}
	if beg < pe.start || oldLen < 0 {
		return types.EditInfo{}, fmt.Errorf("%w: change at %d does not match snapshot at %d", ErrInvariant, beg, pe.start)
	}

	// The removed region is the snapshot's characters [beg-start, beg-start+oldLen).
	// Its old content no longer exists in the buffer, so it can only be
	// reconstructed from the snapshot.
	removedBeg := textpos.ByteOffset(pe.text, beg-pe.start)
	removedEnd := textpos.ByteOffset(pe.text, beg-pe.start+oldLen)
	if utf8.RuneCount(pe.text[removedBeg:removedEnd]) != oldLen {
		return types.EditInfo{}, fmt.Errorf("%w: snapshot does not cover removed region (%d chars)", ErrInvariant, oldLen)
	}
	removed := pe.text[removedBeg:removedEnd]

	text := t.buf.Bytes()
	startByte, startPoint := textpos.Locate(text, beg)
	newEndByte, newEndPoint := textpos.Locate(text, newEnd)

	var oldEndByte uint32
	var oldEndPoint sitter.Point
	if oldLen == 0 {
		// Pure insertion: the removed region was empty, old end collapses
		// onto the start.
		oldEndByte = startByte
		oldEndPoint = startPoint
	} else {
		oldEndByte = startByte + uint32(len(removed))
		if nl := bytes.Count(removed, []byte{'\n'}); nl == 0 {
			// Removal stayed on the first line: column advances by the
			// removed byte length.
			oldEndPoint = sitter.Point{Row: startPoint.Row, Column: startPoint.Column + uint32(len(removed))}
		} else {
			// Removal spanned nl+1 lines: the old end sits on the last of
			// them, at the byte length of the removed text's final line.
			last := bytes.LastIndexByte(removed, '\n')
			oldEndPoint = sitter.Point{Row: startPoint.Row + uint32(nl), Column: uint32(len(removed) - last - 1)}
		}
	}

	if newEndByte < startByte {
		return types.EditInfo{}, fmt.Errorf("%w: new end byte %d precedes start byte %d", ErrInvariant, newEndByte, startByte)
	}

	return types.EditInfo{
		StartIndex:     startByte,
		OldEndIndex:    oldEndByte,
		NewEndIndex:    newEndByte,
		StartPosition:  startPoint,
		OldEndPosition: oldEndPoint,
		NewEndPosition: newEndPoint,
	}, nil
}
