// Package render implements a grayscale bit-plane compositor: it lays a
// paginate.Page onto three 1-bit framebuffer planes (B/W, MSB, LSB)
// whose combination encodes four gray levels. The planes are
// *bitset.BitSet values, the same library kofi-q-scribe-go's rasterizer
// uses for its glyph/page bit buffers, instead of hand-packed []byte.
package render

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/leafreader/core/pkg/body"
)

// Rotation is one of the display's four fixed orientations; pixel access
// always goes through the rotation adapter in buffers.go.
type Rotation int

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Mode selects which of the three compositing passes a glyph blit
// belongs to: B/W clears an on-pixel to black; MSB and LSB set an
// on-pixel to white, against an all-black starting fill.
type Mode int

const (
	ModeBW Mode = iota
	ModeMSB
	ModeLSB
)

// Glyph packs one font glyph's metrics and the bit offset of its bitmap
// within its FontDefinition's planes. Packing bounds: advance-x, width,
// height ∈ [0, 64); xmin, ymin ∈ [-32, 32).
type Glyph struct {
	Codepoint rune

	BitmapOffset int // bit offset into the owning FontDefinition's planes

	AdvanceX int
	Width    int
	Height   int
	XMin     int
	YMin     int
}

// validate enforces Glyph's packing bounds; a FontDefinition built from
// out-of-range glyph data is rejected rather than silently truncated.
func (g Glyph) validate() error {
	if g.AdvanceX < 0 || g.AdvanceX >= 64 || g.Width < 0 || g.Width >= 64 || g.Height < 0 || g.Height >= 64 {
		return fmt.Errorf("render: glyph %q: advance/width/height out of [0,64) range", g.Codepoint)
	}
	if g.XMin < -32 || g.XMin >= 32 || g.YMin < -32 || g.YMin >= 32 {
		return fmt.Errorf("render: glyph %q: xmin/ymin out of [-32,32) range", g.Codepoint)
	}
	return nil
}

// FontDefinition is a static, read-only font: a line-height advance and
// a glyph table sorted by codepoint, each glyph's bitmap addressed into
// three parallel 1-bit planes (B/W, MSB, LSB) that together encode this
// font's glyphs at four gray levels, exactly like the page planes they
// are blitted into.
type FontDefinition struct {
	AdvanceY int
	Glyphs   []Glyph

	// PlaneBW/PlaneMSB/PlaneLSB are packed bit arrays, one per glyph
	// back to back: glyph g's row r, column c lives at bit
	// g.BitmapOffset + r*g.Width + c. They are not grid-addressed like
	// a framebuffer Plane, since glyphs have varying widths.
	PlaneBW  *bitset.BitSet
	PlaneMSB *bitset.BitSet
	PlaneLSB *bitset.BitSet
}

// NewFontDefinition validates and sorts glyphs by codepoint, ready for
// binary search via Lookup.
func NewFontDefinition(advanceY int, glyphs []Glyph, bw, msb, lsb *bitset.BitSet) (*FontDefinition, error) {
	sorted := append([]Glyph(nil), glyphs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Codepoint < sorted[j].Codepoint })
	for _, g := range sorted {
		if err := g.validate(); err != nil {
			return nil, err
		}
	}
	return &FontDefinition{AdvanceY: advanceY, Glyphs: sorted, PlaneBW: bw, PlaneMSB: msb, PlaneLSB: lsb}, nil
}

// Lookup binary-searches the glyph table by codepoint in O(log n).
func (f *FontDefinition) Lookup(cp rune) (Glyph, bool) {
	i := sort.Search(len(f.Glyphs), func(i int) bool { return f.Glyphs[i].Codepoint >= cp })
	if i < len(f.Glyphs) && f.Glyphs[i].Codepoint == cp {
		return f.Glyphs[i], true
	}
	return Glyph{}, false
}

// plane picks this font's packed glyph bit array for the given
// compositing mode.
func (f *FontDefinition) plane(mode Mode) *bitset.BitSet {
	switch mode {
	case ModeMSB:
		return f.PlaneMSB
	case ModeLSB:
		return f.PlaneLSB
	default:
		return f.PlaneBW
	}
}

// glyphBit tests glyph g's bit at local row r, column c in the packed
// bit array bits. Coordinates outside the glyph's own width/height are
// never requested by the blitter, so no bounds clipping is needed here.
func glyphBit(bits *bitset.BitSet, g Glyph, r, c int) bool {
	return bits.Test(uint(g.BitmapOffset + r*g.Width + c))
}

// FontSet maps each styled-run font style to its FontDefinition; Regular
// must always be present and is the fallback for a style with no
// dedicated font.
type FontSet struct {
	Regular    *FontDefinition
	Bold       *FontDefinition
	Italic     *FontDefinition
	BoldItalic *FontDefinition
}

func (fs FontSet) forStyle(style body.FontStyle) *FontDefinition {
	switch style {
	case body.Bold:
		if fs.Bold != nil {
			return fs.Bold
		}
	case body.Italic:
		if fs.Italic != nil {
			return fs.Italic
		}
	case body.BoldItalic:
		if fs.BoldItalic != nil {
			return fs.BoldItalic
		}
	}
	return fs.Regular
}
