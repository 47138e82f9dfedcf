// Package zipstream implements the bounded-memory ZIP directory reader
// (C-ZIP): it locates and parses the end-of-central-directory record,
// enumerates entries from the central directory, and opens a per-entry
// read stream that serves stored data verbatim or inflates deflate data
// on demand. It never loads a whole entry's compressed bytes into memory
// at once — OpenEntry hands back a forward-only io.Reader over the
// ByteSource.
package zipstream

import (
	"encoding/binary"
	"fmt"

	"github.com/leafreader/core/pkg/swr"
)

const (
	sigEOCD    = 0x06054b50
	sigCentral = 0x02014b50
	sigLocal   = 0x04034b50

	eocdFixedSize    = 22
	centralFixedSize = 46
	localFixedSize   = 30

	maxEOCDSearch = 1024

	// CompressionStored and CompressionDeflate are the only two methods
	// this package supports, per spec.
	CompressionStored  = 0
	CompressionDeflate = 8
)

// Entry describes a single ZIP directory entry as read from the central
// directory: its name, its uncompressed size, and the offset of its local
// file header. Entries are produced in central-directory order.
type Entry struct {
	Name             string
	UncompressedSize uint32
	CompressedSize   uint32
	Offset           uint32
}

// ParseZip reads the end-of-central-directory record and the full central
// directory of src, returning entries in central-directory order.
func ParseZip(src swr.ByteSource) ([]Entry, error) {
	total, err := src.Size()
	if err != nil {
		return nil, err
	}

	tailLen := int64(maxEOCDSearch)
	if tailLen > total {
		tailLen = total
	}
	tail := make([]byte, tailLen)
	if _, err := src.Seek(total-tailLen, 0); err != nil {
		return nil, err
	}
	if _, err := readFull(src, tail); err != nil {
		return nil, fmt.Errorf("zipstream: reading EOCD tail: %w", err)
	}

	eocdOff := -1
	for i := len(tail) - eocdFixedSize; i >= 0; i-- {
		if binary.LittleEndian.Uint32(tail[i:]) == sigEOCD {
			eocdOff = i
			break
		}
	}
	if eocdOff < 0 {
		return nil, fmt.Errorf("zipstream: %w: no end-of-central-directory record found", ErrInvalidData)
	}
	eocd := tail[eocdOff:]
	if len(eocd) < eocdFixedSize {
		return nil, fmt.Errorf("zipstream: %w: truncated EOCD", ErrInvalidData)
	}

	totalEntries := binary.LittleEndian.Uint16(eocd[10:12])
	centralSize := binary.LittleEndian.Uint32(eocd[12:16])
	centralOffset := binary.LittleEndian.Uint32(eocd[16:20])

	if _, err := src.Seek(int64(centralOffset), 0); err != nil {
		return nil, err
	}
	cd := make([]byte, centralSize)
	if _, err := readFull(src, cd); err != nil {
		return nil, fmt.Errorf("zipstream: %w: reading central directory: %v", ErrInvalidData, err)
	}

	entries := make([]Entry, 0, totalEntries)
	pos := 0
	for i := 0; i < int(totalEntries); i++ {
		if pos+centralFixedSize > len(cd) {
			return nil, fmt.Errorf("zipstream: %w: central directory entry %d truncated", ErrInvalidData, i)
		}
		rec := cd[pos:]
		if binary.LittleEndian.Uint32(rec) != sigCentral {
			return nil, fmt.Errorf("zipstream: %w: central directory entry %d", ErrInvalidSignature, i)
		}
		compSize := binary.LittleEndian.Uint32(rec[20:24])
		uncompSize := binary.LittleEndian.Uint32(rec[24:28])
		nameLen := int(binary.LittleEndian.Uint16(rec[28:30]))
		extraLen := int(binary.LittleEndian.Uint16(rec[30:32]))
		commentLen := int(binary.LittleEndian.Uint16(rec[32:34]))
		localOffset := binary.LittleEndian.Uint32(rec[42:46])

		nameStart := pos + centralFixedSize
		nameEnd := nameStart + nameLen
		if nameEnd > len(cd) {
			return nil, fmt.Errorf("zipstream: %w: central directory entry %d name truncated", ErrInvalidData, i)
		}
		name := string(cd[nameStart:nameEnd])

		entries = append(entries, Entry{
			Name:             name,
			UncompressedSize: uncompSize,
			CompressedSize:   compSize,
			Offset:           localOffset,
		})

		pos = nameEnd + extraLen + commentLen
	}

	return entries, nil
}

func readFull(src swr.ByteSource, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := src.Read(buf[total:])
		total += n
		if err != nil {
			if total == len(buf) {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}
