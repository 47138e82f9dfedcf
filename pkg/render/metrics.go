package render

import "github.com/leafreader/core/pkg/body"

// FontSet satisfies layout.FontMetrics (structurally; this file does not
// import layout). A caller building a page pipeline, such as cmd/leafctl,
// passes a FontSet as the Font of its layout.Options.

// WordWidth sums the advance widths of word's glyphs in the given style.
// A codepoint absent from the font contributes zero width; DrawGlyph
// logs the same miss at actual draw time.
func (fs FontSet) WordWidth(style body.FontStyle, word string) int {
	font := fs.forStyle(style)
	total := 0
	for _, r := range word {
		if g, ok := font.Lookup(r); ok {
			total += g.AdvanceX
		}
	}
	return total
}

// SpaceWidth returns the advance width of the space glyph in style.
func (fs FontSet) SpaceWidth(style body.FontStyle) int {
	font := fs.forStyle(style)
	if g, ok := font.Lookup(' '); ok {
		return g.AdvanceX
	}
	return 0
}

// DashWidth returns the advance width of the hyphen glyph used to
// terminate a hyphenated line, in style.
func (fs FontSet) DashWidth(style body.FontStyle) int {
	font := fs.forStyle(style)
	if g, ok := font.Lookup('-'); ok {
		return g.AdvanceX
	}
	return 0
}
