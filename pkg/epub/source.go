package epub

import (
	"fmt"
	"io"

	"github.com/leafreader/core/pkg/swr"
	"github.com/leafreader/core/pkg/zipstream"
)

// entrySource adapts a forward-only zipstream.EntryStream to swr.ByteSource
// so xmlstream and the body traversal can build a Window directly over a
// ZIP entry's decompressed bytes without ever materializing the whole
// entry. Size is the entry's declared uncompressed size; Seek only ever
// needs to support a no-op at the current position, since Window never
// seeks backward or forward on its own — it only calls Size once at
// construction and Read thereafter.
type entrySource struct {
	es   *zipstream.EntryStream
	size int64
	read int64
}

func newEntrySource(es *zipstream.EntryStream, uncompressedSize uint32) swr.ByteSource {
	return &entrySource{es: es, size: int64(uncompressedSize)}
}

func (s *entrySource) Read(p []byte) (int, error) {
	n, err := s.es.Read(p)
	s.read += int64(n)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}

func (s *entrySource) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekStart && offset == s.read {
		return s.read, nil
	}
	if whence == io.SeekCurrent && offset == 0 {
		return s.read, nil
	}
	return 0, fmt.Errorf("epub: entrySource is forward-only, cannot seek to offset %d (whence %d)", offset, whence)
}

func (s *entrySource) Size() (int64, error) { return s.size, nil }
