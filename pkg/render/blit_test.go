package render

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"
)

// boxFont builds a single-glyph font whose glyph is a solid w x h box of
// on-bits, identical across all three planes, for predictable blit tests.
func boxFont(t *testing.T, cp rune, w, h, advance, xmin, ymin int) *FontDefinition {
	t.Helper()
	glyph := Glyph{Codepoint: cp, BitmapOffset: 0, AdvanceX: advance, Width: w, Height: h, XMin: xmin, YMin: ymin}
	bits := bitset.New(uint(w * h))
	bits.FlipRange(0, uint(w*h))
	font, err := NewFontDefinition(advance, []Glyph{glyph}, bits, bits, bits)
	require.NoError(t, err)
	return font
}

func countSet(p *Plane) int {
	n := 0
	for y := 0; y < p.Rows; y++ {
		for x := 0; x < p.Stride; x++ {
			if p.Test(x, y) {
				n++
			}
		}
	}
	return n
}

// TestDrawGlyphPlacesExactBox confirms a fully in-bounds glyph blit sets
// exactly the glyph's own pixels, nothing more and nothing less.
func TestDrawGlyphPlacesExactBox(t *testing.T) {
	font := boxFont(t, 'A', 4, 4, 5, 0, 0)
	buffers := NewDisplayBuffers(16, 16, Rotate0)
	target := NewPlane(16, 16)

	adv := DrawGlyph(buffers, target, font, ModeMSB, 'A', 2, 6, nil)
	require.Equal(t, 5, adv)
	require.Equal(t, 16, countSet(target))

	// origin = (x+xmin, y-height-ymin) = (2, 2); box spans rows/cols [2,5].
	for y := 2; y <= 5; y++ {
		for x := 2; x <= 5; x++ {
			require.True(t, target.Test(x, y), "expected (%d,%d) set", x, y)
		}
	}
}

// TestDrawGlyphClipsNegativeOffsets is spec.md §8's glyph blit clipping
// invariant: a glyph blitted at a negative offset must not panic, and any
// portion that falls outside the plane must be silently dropped rather
// than written out of bounds or wrapped.
func TestDrawGlyphClipsNegativeOffsets(t *testing.T) {
	font := boxFont(t, 'A', 4, 4, 5, 0, 0)
	buffers := NewDisplayBuffers(8, 8, Rotate0)
	target := NewPlane(8, 8)

	require.NotPanics(t, func() {
		adv := DrawGlyph(buffers, target, font, ModeMSB, 'A', -2, -2, nil)
		require.Equal(t, 5, adv, "advance is reported even when the glyph is fully clipped")
	})
}

// TestDrawGlyphClipsOffsetsBeyondExtent covers the other half of the
// clipping invariant: an offset far beyond the framebuffer's extent must
// not panic and must leave the plane untouched.
func TestDrawGlyphClipsOffsetsBeyondExtent(t *testing.T) {
	font := boxFont(t, 'A', 4, 4, 5, 0, 0)
	buffers := NewDisplayBuffers(8, 8, Rotate0)
	target := NewPlane(8, 8)

	require.NotPanics(t, func() {
		DrawGlyph(buffers, target, font, ModeMSB, 'A', 1000, 1000, nil)
	})
	require.Equal(t, 0, countSet(target))
}

// TestDrawGlyphPartialClip checks a glyph straddling the plane edge: the
// in-bounds half is drawn, the out-of-bounds half is dropped, and no
// panic occurs.
func TestDrawGlyphPartialClip(t *testing.T) {
	font := boxFont(t, 'A', 4, 4, 5, 0, 0)
	buffers := NewDisplayBuffers(8, 8, Rotate0)
	target := NewPlane(8, 8)

	require.NotPanics(t, func() {
		DrawGlyph(buffers, target, font, ModeMSB, 'A', 6, 4, nil)
	})
	// origin = (6, 0); only columns 6-7 (of 6..9) and rows 0-3 are in bounds.
	require.Equal(t, 8, countSet(target))
}

func TestDrawGlyphMissingCodepointReturnsZero(t *testing.T) {
	font := boxFont(t, 'A', 4, 4, 5, 0, 0)
	buffers := NewDisplayBuffers(8, 8, Rotate0)
	target := NewPlane(8, 8)

	adv := DrawGlyph(buffers, target, font, ModeMSB, 'Z', 0, 4, nil)
	require.Equal(t, 0, adv)
	require.Equal(t, 0, countSet(target))
}

// TestFontLookupBinarySearch is spec.md §8's quantified glyph table
// property: present codepoints are found, absent ones report false.
func TestFontLookupBinarySearch(t *testing.T) {
	bits := bitset.New(1)
	glyphs := []Glyph{
		{Codepoint: 'c', Width: 1, Height: 1},
		{Codepoint: 'a', Width: 1, Height: 1},
		{Codepoint: 'b', Width: 1, Height: 1},
	}
	font, err := NewFontDefinition(10, glyphs, bits, bits, bits)
	require.NoError(t, err)

	for _, cp := range []rune{'a', 'b', 'c'} {
		g, ok := font.Lookup(cp)
		require.True(t, ok)
		require.Equal(t, cp, g.Codepoint)
	}
	_, ok := font.Lookup('z')
	require.False(t, ok)
}

func TestPlaneSetClearOutOfBoundsNoop(t *testing.T) {
	p := NewPlane(4, 4)
	require.NotPanics(t, func() {
		p.Set(-1, 0)
		p.Set(0, -1)
		p.Set(4, 0)
		p.Set(0, 4)
		p.Clear(-5, -5)
	})
	require.Equal(t, 0, countSet(p))
}
