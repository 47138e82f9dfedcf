// Package tbmp decodes and encodes the TBMP bitmap container (spec.md
// §6): a fixed 4-byte-magic header followed by three 1-bit planes (B/W,
// MSB, LSB) at a fixed width/height, used for cover and inline images
// referenced by an EPUB manifest once rasterized for the three-plane
// model pkg/render's compositor consumes.
package tbmp

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"

	"github.com/leafreader/core/pkg/render"
)

var magic = [4]byte{'T', 'B', 'M', 'P'}

// ErrInvalidMagic is returned when the header's magic bytes don't match
// "TBMP".
var ErrInvalidMagic = fmt.Errorf("tbmp: invalid magic")

// ErrBadDimensions is returned when width or height is not a multiple of
// 8, the packing unit every plane's byte rows are addressed in.
var ErrBadDimensions = fmt.Errorf("tbmp: width/height must be multiples of 8")

// Image is a decoded TBMP asset: its declared background and its three
// planes, ready to hand to pkg/render as an inline image's B/W/MSB/LSB
// content (e.g. to seed a page's framebuffer region before text is
// blitted over it).
type Image struct {
	Width, Height int
	Background    byte // 0 = white, 1 = black

	BW  *render.Plane
	MSB *render.Plane
	LSB *render.Plane
}

// Decode reads a TBMP image from r.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	var hdr [4]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("tbmp: reading magic: %w", err)
	}
	if hdr != magic {
		return nil, ErrInvalidMagic
	}

	var dims [4]byte
	if _, err := io.ReadFull(br, dims[:]); err != nil {
		return nil, fmt.Errorf("tbmp: reading dimensions: %w", err)
	}
	width := int(binary.LittleEndian.Uint16(dims[0:2]))
	height := int(binary.LittleEndian.Uint16(dims[2:4]))
	if width%8 != 0 || height%8 != 0 {
		return nil, ErrBadDimensions
	}

	bg, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("tbmp: reading background byte: %w", err)
	}

	planeBytes := width * height / 8
	bwBytes := make([]byte, planeBytes)
	msbBytes := make([]byte, planeBytes)
	lsbBytes := make([]byte, planeBytes)
	for _, buf := range [][]byte{bwBytes, msbBytes, lsbBytes} {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("tbmp: reading plane: %w", err)
		}
	}

	return &Image{
		Width:      width,
		Height:     height,
		Background: bg,
		BW:         render.PlaneFromBits(width, height, bitsetFromBytes(bwBytes)),
		MSB:        render.PlaneFromBits(width, height, bitsetFromBytes(msbBytes)),
		LSB:        render.PlaneFromBits(width, height, bitsetFromBytes(lsbBytes)),
	}, nil
}

// Encode writes img to w in TBMP form.
func Encode(w io.Writer, img *Image) error {
	if img.Width%8 != 0 || img.Height%8 != 0 {
		return ErrBadDimensions
	}
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	var dims [4]byte
	binary.LittleEndian.PutUint16(dims[0:2], uint16(img.Width))
	binary.LittleEndian.PutUint16(dims[2:4], uint16(img.Height))
	if _, err := w.Write(dims[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{img.Background}); err != nil {
		return err
	}
	planeBytes := img.Width * img.Height / 8
	for _, p := range []*render.Plane{img.BW, img.MSB, img.LSB} {
		if _, err := w.Write(bytesFromPlane(p, planeBytes)); err != nil {
			return err
		}
	}
	return nil
}

func bitsetFromBytes(b []byte) *bitset.BitSet {
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
