// Package xtg decodes and encodes XTG/XTH framebuffer snapshots (spec.md
// §6): a compact on-disk capture of a DisplayBuffers' planes used by
// cmd/leafcompare to diff a rendered page against a recorded golden
// snapshot.
// XTG snapshots carry a single plane (B/W only); XTH snapshots carry two
// (B/W plus one auxiliary plane), matching the two-level and four-level
// grayscale display configurations.
package xtg

import (
	"bufio"
	"bytes"
	"compress/flate"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/leafreader/core/pkg/render"
)

var (
	magicXTG = [4]byte{'X', 'T', 'G', 0}
	magicXTH = [4]byte{'X', 'T', 'H', 0}
)

// ColorMode distinguishes a single-plane (2-level) snapshot from a
// dual-plane (4-level) one.
type ColorMode byte

const (
	Monochrome ColorMode = 0
	Grayscale4 ColorMode = 1
)

// Compression selects whether the plane payload is stored raw or
// DEFLATE-compressed, mirroring the stored/deflate choice zipstream
// already reads on the container side.
type Compression byte

const (
	Stored  Compression = 0
	Deflate Compression = 1
)

// ErrInvalidMagic is returned when the header doesn't start with "XTG\0"
// or "XTH\0".
var ErrInvalidMagic = fmt.Errorf("xtg: invalid magic")

// ErrChecksumMismatch is returned when the decoded payload's MD5 does not
// match the header's recorded digest.
var ErrChecksumMismatch = fmt.Errorf("xtg: checksum mismatch")

// Snapshot is a decoded framebuffer capture: its declared dimensions,
// color mode, and one or two planes in the same bit convention
// pkg/render uses (1 = white).
type Snapshot struct {
	Width, Height int
	Mode          ColorMode

	BW  *render.Plane
	Aux *render.Plane // nil for Monochrome snapshots
}

// Decode reads an XTG or XTH snapshot from r.
func Decode(r io.Reader) (*Snapshot, error) {
	br := bufio.NewReader(r)

	var hdr [4]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("xtg: reading magic: %w", err)
	}
	var dual bool
	switch hdr {
	case magicXTG:
		dual = false
	case magicXTH:
		dual = true
	default:
		return nil, ErrInvalidMagic
	}

	var fixed [10]byte
	if _, err := io.ReadFull(br, fixed[:]); err != nil {
		return nil, fmt.Errorf("xtg: reading header: %w", err)
	}
	width := int(binary.LittleEndian.Uint16(fixed[0:2]))
	height := int(binary.LittleEndian.Uint16(fixed[2:4]))
	mode := ColorMode(fixed[4])
	compression := Compression(fixed[5])
	dataSize := binary.LittleEndian.Uint32(fixed[6:10])

	var digest [16]byte
	if _, err := io.ReadFull(br, digest[:]); err != nil {
		return nil, fmt.Errorf("xtg: reading digest: %w", err)
	}

	raw := make([]byte, dataSize)
	if _, err := io.ReadFull(br, raw); err != nil {
		return nil, fmt.Errorf("xtg: reading payload: %w", err)
	}

	sum := md5.Sum(raw)
	if sum != digest {
		return nil, ErrChecksumMismatch
	}

	payload := raw
	if compression == Deflate {
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		decoded, err := io.ReadAll(fr)
		if err != nil {
			return nil, fmt.Errorf("xtg: inflating payload: %w", err)
		}
		payload = decoded
	}

	planeBytes := width * height / 8
	if len(payload) < planeBytes {
		return nil, fmt.Errorf("xtg: payload too short for declared dimensions")
	}

	snap := &Snapshot{
		Width:  width,
		Height: height,
		Mode:   mode,
		BW:     render.PlaneFromBits(width, height, bitsFromBytes(payload[:planeBytes])),
	}
	if dual {
		if len(payload) < 2*planeBytes {
			return nil, fmt.Errorf("xtg: payload too short for dual-plane snapshot")
		}
		snap.Aux = render.PlaneFromBits(width, height, bitsFromBytes(payload[planeBytes:2*planeBytes]))
	}
	return snap, nil
}

// Encode writes snap to w. Dual-plane snapshots (snap.Aux != nil) use the
// XTH magic; single-plane ones use XTG. The payload is stored
// uncompressed; compression is a read-side affordance for snapshots
// produced by other tools in the retrieval pack's style.
func Encode(w io.Writer, snap *Snapshot) error {
	planeBytes := snap.Width * snap.Height / 8
	payload := bytesFromPlane(snap.BW, planeBytes)
	if snap.Aux != nil {
		payload = append(payload, bytesFromPlane(snap.Aux, planeBytes)...)
	}

	magic := magicXTG
	if snap.Aux != nil {
		magic = magicXTH
	}
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}

	var fixed [10]byte
	binary.LittleEndian.PutUint16(fixed[0:2], uint16(snap.Width))
	binary.LittleEndian.PutUint16(fixed[2:4], uint16(snap.Height))
	fixed[4] = byte(snap.Mode)
	fixed[5] = byte(Stored)
	binary.LittleEndian.PutUint32(fixed[6:10], uint32(len(payload)))
	if _, err := w.Write(fixed[:]); err != nil {
		return err
	}

	digest := md5.Sum(payload)
	if _, err := w.Write(digest[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
