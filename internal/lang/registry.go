package lang

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-enry/go-enry/v2"

	"github.com/bethropolis/treesync/internal/logger"
)

var (
	// Global language registry
	registry struct {
		sync.RWMutex
		languages     []*Language
		extToLanguage map[string]*Language
		nameToLang    map[string]*Language
	}

	initOnce sync.Once
)

// Initialize ensures the registry is ready for use.
func Initialize() {
	initOnce.Do(func() {
		registry.extToLanguage = make(map[string]*Language)
		registry.nameToLang = make(map[string]*Language)
		registry.languages = make([]*Language, 0)
	})
}

// Register adds a language to the registry.
func Register(lang *Language) {
	Initialize()

	registry.Lock()
	defer registry.Unlock()

	registry.languages = append(registry.languages, lang)
	registry.nameToLang[strings.ToLower(lang.Name)] = lang

	for _, ext := range lang.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := registry.extToLanguage[lowerExt]; ok {
			logger.Warnf("Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, lang.Name)
		}
		registry.extToLanguage[lowerExt] = lang
	}

	logger.Debugf("Registered language: %s with extensions: %v", lang.Name, lang.Extensions)
}

// GetForFile resolves the language for a file path, first by extension and
// then by content-based detection over the registered names. Returns nil when
// nothing matches.
func GetForFile(filePath string, content []byte) *Language {
	Initialize()

	registry.RLock()
	defer registry.RUnlock()

	ext := strings.ToLower(filepath.Ext(filePath))
	if lang, ok := registry.extToLanguage[ext]; ok {
		return lang
	}

	if name := enry.GetLanguage(filepath.Base(filePath), content); name != "" {
		if lang, ok := registry.nameToLang[strings.ToLower(name)]; ok {
			logger.Debugf("Resolved %s to %s by content detection", filePath, lang.Name)
			return lang
		}
	}

	return nil
}

// GetByName returns a registered language by (case-insensitive) name.
func GetByName(name string) *Language {
	Initialize()

	registry.RLock()
	defer registry.RUnlock()
	return registry.nameToLang[strings.ToLower(name)]
}

// GetAll returns all registered languages.
func GetAll() []*Language {
	Initialize()

	registry.RLock()
	defer registry.RUnlock()

	result := make([]*Language, len(registry.languages))
	copy(result, registry.languages)
	return result
}
