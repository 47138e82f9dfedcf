package fsabi

import (
	"fmt"

	"github.com/leafreader/core/pkg/body"
	"github.com/leafreader/core/pkg/render"
)

// FontKey identifies one (family, size, style) combination a FontProvider
// resolves to a concrete FontDefinition.
type FontKey struct {
	Family string
	Size   int
	Style  body.FontStyle
}

// FontProvider is the Font contract of spec.md §6: given a family, size,
// and style, return the FontDefinition layout and render use for glyph
// lookup, advance, and word-width sums.
type FontProvider interface {
	Font(key FontKey) (*render.FontDefinition, error)
}

// MemFontProvider is a FontProvider backed by an in-memory table, for
// tests and tools that already hold parsed FontDefinitions (e.g. loaded
// once at startup from a font asset bundle).
type MemFontProvider struct {
	fonts map[FontKey]*render.FontDefinition
}

// NewMemFontProvider builds an empty provider; register fonts with Put.
func NewMemFontProvider() *MemFontProvider {
	return &MemFontProvider{fonts: make(map[FontKey]*render.FontDefinition)}
}

// Put registers a font definition under the given key.
func (p *MemFontProvider) Put(key FontKey, def *render.FontDefinition) {
	p.fonts[key] = def
}

func (p *MemFontProvider) Font(key FontKey) (*render.FontDefinition, error) {
	def, ok := p.fonts[key]
	if !ok {
		return nil, fmt.Errorf("fsabi: no font registered for %+v", key)
	}
	return def, nil
}
