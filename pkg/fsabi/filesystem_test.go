package fsabi

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemFilesystemReadWriteRoundTrip(t *testing.T) {
	fs := NewMemFilesystem()
	fs.Put("book/chapter1.xhtml", []byte("<html></html>"))

	f, err := fs.OpenFile("book/chapter1.xhtml", Read)
	require.NoError(t, err)
	defer f.Close()

	got, err := io.ReadAll(ioReaderFunc(f.Read))
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(got))
}

func TestMemFilesystemWriteThenRead(t *testing.T) {
	fs := NewMemFilesystem()
	f, err := fs.OpenFile("out.bin", Write)
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f2, err := fs.OpenFile("out.bin", Read)
	require.NoError(t, err)
	defer f2.Close()
	got, err := io.ReadAll(ioReaderFunc(f2.Read))
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestMemFilesystemOpenMissing(t *testing.T) {
	fs := NewMemFilesystem()
	_, err := fs.OpenFile("missing.txt", Read)
	require.Error(t, err)
}

func TestMemFilesystemOpenDirectoryListsByPrefix(t *testing.T) {
	fs := NewMemFilesystem()
	fs.Put("book/chapter1.xhtml", []byte("a"))
	fs.Put("book/chapter2.xhtml", []byte("bb"))
	fs.Put("other/file.txt", []byte("c"))

	dir, err := fs.OpenDirectory("book")
	require.NoError(t, err)
	entries, err := dir.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

// ioReaderFunc adapts a bare Read method to io.Reader for io.ReadAll.
type ioReaderFunc func([]byte) (int, error)

func (f ioReaderFunc) Read(p []byte) (int, error) { return f(p) }
