package xtg

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/leafreader/core/pkg/render"
)

func bitsFromBytes(b []byte) *bitset.BitSet {
	bs := bitset.New(uint(len(b) * 8))
	for i, by := range b {
		for bit := 0; bit < 8; bit++ {
			if by&(1<<uint(7-bit)) != 0 {
				bs.Set(uint(i*8 + bit))
			}
		}
	}
	return bs
}

func bytesFromPlane(p *render.Plane, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < p.Stride*p.Rows; i++ {
		x := i % p.Stride
		y := i / p.Stride
		if p.Test(x, y) {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
