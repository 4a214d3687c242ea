// Package textpos converts character (rune) offsets into the byte offsets and
// (row, byte-column) points the parser engine works in. All functions are pure
// and tolerate offsets past the end of text by clamping to the end.
//
// Conventions used module-wide: character offsets count runes from the start
// of the full text, byte offsets count UTF-8 bytes, lines split on '\n', and a
// point's column is the byte offset from the start of its line.
package textpos

import (
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// ByteOffset returns the byte offset of the given character offset within text.
func ByteOffset(text []byte, charOffset int) uint32 {
	b, _ := Locate(text, charOffset)
	return b
}

// PointAt returns the (row, byte-column) point of the given character offset.
func PointAt(text []byte, charOffset int) sitter.Point {
	_, pt := Locate(text, charOffset)
	return pt
}

// Locate returns both the byte offset and the point for a character offset,
// walking the text once.
func Locate(text []byte, charOffset int) (uint32, sitter.Point) {
	byteOff := 0
	runeCount := 0
	lineStart := 0
	row := uint32(0)

	for byteOff < len(text) && runeCount < charOffset {
		r, size := utf8.DecodeRune(text[byteOff:])
		byteOff += size
		runeCount++
		if r == '\n' {
			row++
			lineStart = byteOff
		}
	}

	return uint32(byteOff), sitter.Point{Row: row, Column: uint32(byteOff - lineStart)}
}
