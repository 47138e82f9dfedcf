package render

import "github.com/bits-and-blooms/bitset"

// Plane is a 1-bit bitmap addressed as a flat row-major grid: bit index
// = y*Stride + x. It backs a DisplayBuffers' full-screen planes (Stride
// is the physical framebuffer width); a font's glyph bitmap planes are
// bare bitsets packed per glyph, not Planes.
type Plane struct {
	Stride int
	Rows   int
	bits   *bitset.BitSet
}

// NewPlane allocates a zeroed (all-black, see Fill) plane of the given
// dimensions.
func NewPlane(stride, rows int) *Plane {
	return &Plane{Stride: stride, Rows: rows, bits: bitset.New(uint(stride * rows))}
}

// PlaneFromBits wraps an already-populated bitset (e.g. decoded from a
// font or TBMP asset) as a Plane of the given dimensions.
func PlaneFromBits(stride, rows int, bits *bitset.BitSet) *Plane {
	return &Plane{Stride: stride, Rows: rows, bits: bits}
}

func (p *Plane) inBounds(x, y int) bool {
	return x >= 0 && x < p.Stride && y >= 0 && y < p.Rows
}

// Test reports the bit at (x, y); out-of-bounds coordinates read false.
func (p *Plane) Test(x, y int) bool {
	if !p.inBounds(x, y) {
		return false
	}
	return p.bits.Test(uint(y*p.Stride + x))
}

// Set sets the bit at (x, y) to true; out-of-bounds writes are silently
// dropped, since pixels landing outside the rotation-resolved
// framebuffer extent are clipped rather than treated as an error.
func (p *Plane) Set(x, y int) {
	if !p.inBounds(x, y) {
		return
	}
	p.bits.Set(uint(y*p.Stride + x))
}

// Clear clears the bit at (x, y) to false; out-of-bounds writes are
// silently dropped.
func (p *Plane) Clear(x, y int) {
	if !p.inBounds(x, y) {
		return
	}
	p.bits.Clear(uint(y*p.Stride + x))
}

// Fill sets every bit to white (true) or black (false). The underlying
// bitset only exposes ClearAll and range-flip, so "all true" is built
// from clearing then flipping the full range.
func (p *Plane) Fill(white bool) {
	p.bits.ClearAll()
	if white {
		n := uint(p.Stride * p.Rows)
		if n > 0 {
			p.bits.FlipRange(0, n)
		}
	}
}

// Equal reports whether two planes of the same dimensions hold identical
// bits, used by Renderer.Dirty to decide Fast vs Full display refresh.
func (p *Plane) Equal(o *Plane) bool {
	if p.Stride != o.Stride || p.Rows != o.Rows {
		return false
	}
	return p.bits.Equal(o.bits)
}

// Clone deep-copies the plane.
func (p *Plane) Clone() *Plane {
	return &Plane{Stride: p.Stride, Rows: p.Rows, bits: p.bits.Clone()}
}
