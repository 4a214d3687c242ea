package lang

import (
	"sync"

	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript"
	pythonsrc "github.com/smacker/go-tree-sitter/python"
)

var registerDefaultsOnce sync.Once

// RegisterDefaults registers the built-in grammar bindings.
func RegisterDefaults() {
	registerDefaultsOnce.Do(func() {
		Register(&Language{
			Name:       "Go",
			Sitter:     gosrc.GetLanguage(),
			Extensions: []string{".go"},
		})

		Register(&Language{
			Name:       "Python",
			Sitter:     pythonsrc.GetLanguage(),
			Extensions: []string{".py", ".pyw"},
		})

		// JS parser covers plain JSON documents well enough for tree queries.
		Register(&Language{
			Name:       "JavaScript",
			Sitter:     jssrc.GetLanguage(),
			Extensions: []string{".js", ".mjs", ".cjs", ".json"},
		})
	})
}
