// Package extract recovers raw command blocks from documentation files.
package extract

import (
	"fmt"
	"strings"
	"sync"

	"docverify/internal/domain"
)

// Extractor yields the ordered raw command blocks of a document. The scan
// is a single forward pass; malformed blocks are dropped, not reported.
type Extractor interface {
	Extract(name string, content []byte) ([]domain.RawBlock, error)
	SupportedExtensions() []string
}

// Registry maps file extensions to extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Register adds an extractor for each of its supported extensions.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.SupportedExtensions() {
		r.extractors[strings.TrimPrefix(ext, ".")] = e
	}
}

// ExtractorFor returns the extractor registered for the given extension.
func (r *Registry) ExtractorFor(extension string) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext := strings.TrimPrefix(extension, ".")
	if e, ok := r.extractors[ext]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("no extractor registered for extension %q", extension)
}
