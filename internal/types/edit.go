package types

import sitter "github.com/smacker/go-tree-sitter"

// EditInfo encapsulates the information needed for tree-sitter's Edit function.
// Byte indices are absolute offsets into the buffer's UTF-8 text; points are
// (row, byte-column) pairs. Old coordinates describe the text as it existed
// before the mutation, new coordinates the text after it.
type EditInfo struct {
	StartIndex     uint32       // Start byte of the edit
	OldEndIndex    uint32       // End byte of the old text
	NewEndIndex    uint32       // End byte of the new text
	StartPosition  sitter.Point // Start position (row, column)
	OldEndPosition sitter.Point // Old end position
	NewEndPosition sitter.Point // New end position
}

// Input converts the edit to the parser engine's EditInput form.
func (e EditInfo) Input() sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  e.StartIndex,
		OldEndIndex: e.OldEndIndex,
		NewEndIndex: e.NewEndIndex,
		StartPoint:  e.StartPosition,
		OldEndPoint: e.OldEndPosition,
		NewEndPoint: e.NewEndPosition,
	}
}
