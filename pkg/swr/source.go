package swr

import (
	"bytes"
	"io"
	"os"
)

// ByteSource is the minimal capability the sliding-window reader needs from
// an arbitrarily large seekable stream: read, seek, and a known total size.
// Both the ZIP directory reader and the XML event reader are built on top
// of one of these; the core never holds a concrete file handle type.
type ByteSource interface {
	io.Reader
	io.Seeker
	Size() (int64, error)
}

type fileSource struct {
	f *os.File
}

// NewFileSource wraps an already-open, seekable file as a ByteSource.
func NewFileSource(f *os.File) ByteSource {
	return &fileSource{f: f}
}

func (s *fileSource) Read(p []byte) (int, error)             { return s.f.Read(p) }
func (s *fileSource) Seek(off int64, whence int) (int64, error) { return s.f.Seek(off, whence) }
func (s *fileSource) Size() (int64, error) {
	fi, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

type bytesSource struct {
	r *bytes.Reader
}

// NewBytesSource wraps an in-memory byte slice as a ByteSource, for tests
// and for small files (cover images, CSS) pulled wholesale from a ZIP
// entry.
func NewBytesSource(b []byte) ByteSource {
	return &bytesSource{r: bytes.NewReader(b)}
}

func (s *bytesSource) Read(p []byte) (int, error)               { return s.r.Read(p) }
func (s *bytesSource) Seek(off int64, whence int) (int64, error) { return s.r.Seek(off, whence) }
func (s *bytesSource) Size() (int64, error)                      { return s.r.Size(), nil }
