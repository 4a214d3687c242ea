// internal/buffer/buffer.go
package buffer

import "github.com/bethropolis/treesync/internal/event"

// Buffer defines the interface for text buffer operations. All positions are
// character (rune) offsets into the full text; the notification protocol for
// mutations is documented on TextBuffer.
type Buffer interface {
	Load(filePath string) error
	Save(filePath string) error
	Bytes() []byte
	FilePath() string
	IsModified() bool
	Len() int
	Slice(beg, end int) ([]byte, error)
	Insert(off int, text []byte) error
	Delete(beg, end int) error
	Replace(beg, end int, text []byte) error
	Events() *event.Manager
}
