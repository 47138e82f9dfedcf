package main

import (
	"testing"

	"github.com/leafreader/core/pkg/swr"
	"github.com/leafreader/core/pkg/xmlstream"
	"github.com/leafreader/core/pkg/zipstream"
)

// FuzzWindow drives the sliding-window reader directly: Ensure a small
// lookahead and Consume past it, repeatedly, until the source is
// exhausted. It must never panic regardless of input.
func FuzzWindow(f *testing.F) {
	for _, seed := range zipSeeds() {
		f.Add(seed)
	}
	for _, seed := range xmlSeeds() {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		src := swr.NewBytesSource(data)
		w, err := swr.New(src, make([]byte, 64))
		if err != nil {
			return
		}
		for i := 0; i < len(data)+64; i++ {
			if err := w.Ensure(1); err != nil {
				return
			}
			w.Consume(1)
		}
	})
}

// FuzzZipEntries exercises ParseZip and a full read of every entry it
// reports, covering both the central directory parser and the per-entry
// stored/deflate decompression path.
func FuzzZipEntries(f *testing.F) {
	for _, seed := range zipSeeds() {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		src := swr.NewBytesSource(data)
		entries, err := zipstream.ParseZip(src)
		if err != nil {
			return
		}
		for _, e := range entries {
			es, err := zipstream.OpenEntry(src, e)
			if err != nil {
				continue
			}
			_, _ = es.ReadToEnd()
			es.Close()
		}
	})
}

// FuzzXMLEvents drains the event stream to completion, covering element,
// attribute, CDATA, comment, and processing-instruction handling.
func FuzzXMLEvents(f *testing.F) {
	for _, seed := range xmlSeeds() {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		src := swr.NewBytesSource(data)
		r, err := xmlstream.Open(src, 256)
		if err != nil {
			return
		}
		for i := 0; i < len(data)+256; i++ {
			ev, err := r.NextEvent()
			if err != nil || ev.Kind == xmlstream.KindEndOfFile {
				return
			}
		}
	})
}
