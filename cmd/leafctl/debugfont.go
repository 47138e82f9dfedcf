package main

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/leafreader/core/pkg/render"
)

// debugGlyphWidth and debugGlyphHeight size the placeholder block glyph
// leafctl draws for every printable ASCII codepoint. This stands in for
// a real font asset (outside this module's scope, loaded by an outer
// application through fsabi.FontProvider) so `page` can exercise the
// full layout/paginate/render pipeline without one.
const (
	debugGlyphWidth  = 6
	debugGlyphHeight = 10
)

// newDebugFontSet builds a render.FontSet whose four styles all share one
// synthetic monospace font: every printable ASCII codepoint is a filled
// rectangle with a one-pixel border, space is blank. It is only useful
// for previewing layout geometry, never for legibility.
func newDebugFontSet(advanceY int) render.FontSet {
	def := buildDebugFont(advanceY)
	return render.FontSet{Regular: def, Bold: def, Italic: def, BoldItalic: def}
}

func buildDebugFont(advanceY int) *render.FontDefinition {
	const first, last = 0x20, 0x7e
	n := last - first + 1
	cellBits := debugGlyphWidth * debugGlyphHeight

	bits := bitset.New(uint(n * cellBits))
	glyphs := make([]render.Glyph, 0, n)

	for i := 0; i < n; i++ {
		cp := rune(first + i)
		offset := i * cellBits
		if cp != ' ' {
			for r := 1; r < debugGlyphHeight-1; r++ {
				for c := 1; c < debugGlyphWidth-1; c++ {
					bits.Set(uint(offset + r*debugGlyphWidth + c))
				}
			}
		}
		glyphs = append(glyphs, render.Glyph{
			Codepoint:    cp,
			BitmapOffset: offset,
			AdvanceX:     debugGlyphWidth,
			Width:        debugGlyphWidth,
			Height:       debugGlyphHeight,
		})
	}

	def, err := render.NewFontDefinition(advanceY, glyphs, bits, bits, bits)
	if err != nil {
		// The synthetic table's bounds are fixed constants above; a
		// validation failure here means those constants were changed
		// to something outside render's packing range.
		panic(err)
	}
	return def
}
