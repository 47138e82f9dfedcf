package zipstream

import (
	"bufio"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/leafreader/core/pkg/swr"
)

// entryInputBufSize is the small forward-read buffer each deflate
// EntryStream keeps in front of its decompression state, matching the bounded
// working-set budget the container pipeline is built for.
const entryInputBufSize = 512

// EntryStream is a single-use, forward-only reader over one ZIP entry's
// decompressed bytes. It borrows src mutably for its lifetime; only one
// EntryStream may be open on a given ByteSource at a time.
type EntryStream struct {
	method     uint16
	uncompRem  uint32
	src        io.Reader // stored: a bounded passthrough; deflate: the flate.Reader
	rawCloser  io.Closer
}

// OpenEntry seeks to entry's local file header, validates it, and returns
// a stream ready to yield entry's decompressed bytes.
func OpenEntry(src swr.ByteSource, entry Entry) (*EntryStream, error) {
	if _, err := src.Seek(int64(entry.Offset), 0); err != nil {
		return nil, err
	}
	hdr := make([]byte, localFixedSize)
	if _, err := readFull(src, hdr); err != nil {
		return nil, fmt.Errorf("zipstream: reading local header: %w", err)
	}
	if binary.LittleEndian.Uint32(hdr) != sigLocal {
		return nil, fmt.Errorf("zipstream: local header for %q: %w", entry.Name, ErrInvalidSignature)
	}
	method := binary.LittleEndian.Uint16(hdr[8:10])
	nameLen := int(binary.LittleEndian.Uint16(hdr[26:28]))
	extraLen := int(binary.LittleEndian.Uint16(hdr[28:30]))

	skip := make([]byte, nameLen+extraLen)
	if len(skip) > 0 {
		if _, err := readFull(src, skip); err != nil {
			return nil, fmt.Errorf("zipstream: skipping name/extra for %q: %w", entry.Name, err)
		}
	}

	switch method {
	case CompressionStored:
		return &EntryStream{
			method:    method,
			uncompRem: entry.UncompressedSize,
			src:       io.LimitReader(src, int64(entry.UncompressedSize)),
		}, nil
	case CompressionDeflate:
		bounded := io.LimitReader(src, int64(entry.CompressedSize))
		buffered := bufio.NewReaderSize(bounded, entryInputBufSize)
		fr := flate.NewReader(buffered)
		return &EntryStream{
			method:    method,
			uncompRem: entry.UncompressedSize,
			src:       fr,
			rawCloser: fr,
		}, nil
	default:
		return nil, fmt.Errorf("zipstream: %q uses method %d: %w", entry.Name, method, ErrUnsupportedCompression)
	}
}

// Read yields decompressed bytes into buf, returning (0, nil) at end of
// stream rather than io.EOF, per the package's "end of stream is reported
// naturally by returning 0" contract.
func (e *EntryStream) Read(buf []byte) (int, error) {
	n, err := e.src.Read(buf)
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		return n, fmt.Errorf("zipstream: %w: %v", ErrDecompression, err)
	}
	return n, nil
}

// Skip discards n bytes by reading and dropping them; there is no backward
// seek on an EntryStream.
func (e *EntryStream) Skip(n int) error {
	buf := make([]byte, min(n, 4096))
	for n > 0 {
		chunk := len(buf)
		if chunk > n {
			chunk = n
		}
		got, err := e.Read(buf[:chunk])
		n -= got
		if got == 0 || err != nil {
			return err
		}
	}
	return nil
}

// ReadToEnd reads the remainder of the stream into a single slice.
func (e *EntryStream) ReadToEnd() ([]byte, error) {
	out := make([]byte, 0, e.uncompRem)
	buf := make([]byte, 4096)
	for {
		n, err := e.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, nil
		}
	}
}

// Close releases the underlying inflate state, if any.
func (e *EntryStream) Close() error {
	if e.rawCloser != nil {
		return e.rawCloser.Close()
	}
	return nil
}
