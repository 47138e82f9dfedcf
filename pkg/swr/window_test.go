package swr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindowEnsureAdvancesAndRefills(t *testing.T) {
	src := NewBytesSource([]byte("0123456789abcdef"))
	buf := make([]byte, 4)
	w, err := New(src, buf)
	require.NoError(t, err)
	require.Equal(t, "0123", string(w.Buffer()))

	w.Consume(3)
	require.Equal(t, "3", string(w.Buffer()))

	require.NoError(t, w.Ensure(4))
	require.Equal(t, "3456", string(w.Buffer()))
}

func TestWindowEnsureEofWhenSourceExhausted(t *testing.T) {
	src := NewBytesSource([]byte("abc"))
	buf := make([]byte, 4)
	w, err := New(src, buf)
	require.NoError(t, err)

	err = w.Ensure(10)
	require.ErrorIs(t, err, ErrEof)
}

func TestWindowTryFindWithinView(t *testing.T) {
	src := NewBytesSource([]byte("xx<start>middle<end>yy"))
	buf := make([]byte, 64)
	w, err := New(src, buf)
	require.NoError(t, err)

	si, ei, err := w.TryFind([]byte("<start>"), []byte("<end>"))
	require.NoError(t, err)
	require.Equal(t, "xx<start>middle<end>yy"[si:ei], "<start>middle<end>")
}

func TestWindowTryFindAcrossAdvance(t *testing.T) {
	payload := "AAAAAAAAAA<start>BBBBBBBBBB<end>CCCC"
	src := NewBytesSource([]byte(payload))
	buf := make([]byte, 24) // smaller than the payload: "<end>" is only in view after an advance
	w, err := New(src, buf)
	require.NoError(t, err)

	si, ei, err := w.TryFind([]byte("<start>"), []byte("<end>"))
	require.NoError(t, err)
	got := string(w.Buffer()[si:ei])
	require.Equal(t, "<start>BBBBBBBBBB<end>", got)
}

func TestWindowTryFindStartEof(t *testing.T) {
	src := NewBytesSource([]byte("no needle here"))
	buf := make([]byte, 4)
	w, err := New(src, buf)
	require.NoError(t, err)

	_, err = w.TryFindStart([]byte("ZZZZ"))
	require.ErrorIs(t, err, ErrEof)
}
