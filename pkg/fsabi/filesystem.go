// Package fsabi defines the minimal contracts an outer application
// implements so the core packages (layout, render) never import
// os, a hardware display driver, or a font file format directly: the
// Filesystem, Font, and Display contracts of spec.md §6, plus an
// in-memory and an os-backed Filesystem for tests and CLI tools.
package fsabi

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/leafreader/core/pkg/swr"
)

// OpenMode is the access mode OpenFile is called with. The core itself
// only ever needs Read; Write and ReadWrite exist for an outer
// application's own use (e.g. writing a downloaded book into storage).
type OpenMode int

const (
	Read OpenMode = iota
	Write
	ReadWrite
)

// DirEntry describes one entry returned by a Directory's List.
type DirEntry struct {
	Name        string
	Size        int64
	IsDirectory bool
}

// File is a ByteSource that can also be written to and must be closed.
type File interface {
	swr.ByteSource
	io.Writer
	io.Closer
}

// Directory lists its entries.
type Directory interface {
	List() ([]DirEntry, error)
}

// Filesystem is the storage contract an outer application supplies.
type Filesystem interface {
	OpenFile(path string, mode OpenMode) (File, error)
	OpenDirectory(path string) (Directory, error)
}

// OSFilesystem implements Filesystem directly over the local disk.
type OSFilesystem struct{}

// NewOSFilesystem returns a Filesystem backed by the local OS.
func NewOSFilesystem() Filesystem { return OSFilesystem{} }

func (OSFilesystem) OpenFile(path string, mode OpenMode) (File, error) {
	var flag int
	switch mode {
	case Read:
		flag = os.O_RDONLY
	case Write:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ReadWrite:
		flag = os.O_RDWR | os.O_CREATE
	default:
		return nil, fmt.Errorf("fsabi: unknown open mode %d", mode)
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	return &osFile{f: f}, nil
}

func (OSFilesystem) OpenDirectory(path string) (Directory, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return osDirectory{path: path}, nil
}

type osFile struct {
	f *os.File
}

func (o *osFile) Read(p []byte) (int, error)               { return o.f.Read(p) }
func (o *osFile) Write(p []byte) (int, error)               { return o.f.Write(p) }
func (o *osFile) Seek(off int64, whence int) (int64, error) { return o.f.Seek(off, whence) }
func (o *osFile) Close() error                               { return o.f.Close() }
func (o *osFile) Size() (int64, error) {
	fi, err := o.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

type osDirectory struct {
	path string
}

func (d osDirectory) List() ([]DirEntry, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, DirEntry{Name: e.Name(), Size: info.Size(), IsDirectory: e.IsDir()})
	}
	return out, nil
}

// MemFilesystem is an in-memory Filesystem for tests and fuzzing, keyed
// by exact path string (no directory traversal semantics beyond prefix
// matching in OpenDirectory).
type MemFilesystem struct {
	files map[string][]byte
}

// NewMemFilesystem builds an empty in-memory filesystem.
func NewMemFilesystem() *MemFilesystem {
	return &MemFilesystem{files: make(map[string][]byte)}
}

// Put seeds a file's content, overwriting any prior content at path.
func (m *MemFilesystem) Put(path string, content []byte) {
	m.files[path] = content
}

func (m *MemFilesystem) OpenFile(path string, mode OpenMode) (File, error) {
	switch mode {
	case Read:
		content, ok := m.files[path]
		if !ok {
			return nil, fmt.Errorf("fsabi: %q not found", path)
		}
		return &memFile{fs: m, path: path, src: swr.NewBytesSource(content)}, nil
	default:
		return &memFile{fs: m, path: path, src: swr.NewBytesSource(nil)}, nil
	}
}

func (m *MemFilesystem) OpenDirectory(path string) (Directory, error) {
	prefix := path
	if prefix != "" && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	var names []string
	for p := range m.files {
		if prefix == "" || len(p) > len(prefix) && p[:len(prefix)] == prefix {
			names = append(names, p)
		}
	}
	sort.Strings(names)
	return memDirectory{fs: m, names: names}, nil
}

type memFile struct {
	fs     *MemFilesystem
	path   string
	src    swr.ByteSource
	buf    []byte
}

func (f *memFile) Read(p []byte) (int, error)               { return f.src.Read(p) }
func (f *memFile) Seek(off int64, whence int) (int64, error) { return f.src.Seek(off, whence) }
func (f *memFile) Size() (int64, error)                      { return f.src.Size() }
func (f *memFile) Write(p []byte) (int, error) {
	f.buf = append(f.buf, p...)
	return len(p), nil
}
func (f *memFile) Close() error {
	if f.buf != nil {
		f.fs.Put(f.path, f.buf)
	}
	return nil
}

type memDirectory struct {
	fs    *MemFilesystem
	names []string
}

func (d memDirectory) List() ([]DirEntry, error) {
	out := make([]DirEntry, 0, len(d.names))
	for _, n := range d.names {
		out = append(out, DirEntry{Name: n, Size: int64(len(d.fs.files[n])), IsDirectory: false})
	}
	return out, nil
}
