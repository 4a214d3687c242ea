package lang

import sitter "github.com/smacker/go-tree-sitter"

// Language binds a grammar name to its tree-sitter implementation and the
// file extensions it claims.
type Language struct {
	Name       string
	Sitter     *sitter.Language
	Extensions []string
}
