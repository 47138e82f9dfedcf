// Command leaffuzz seeds a fuzz corpus for the three bounded-memory
// readers at the bottom of the container pipeline: pkg/swr, pkg/zipstream,
// and pkg/xmlstream. It replaces the donor's cmd/epubfuzz, which
// generated whole fault-injected EPUBs for epubverify/epubcheck
// differential testing, with seed generation for Go's native fuzzer:
// run this to write the seeds as raw files under testdata/fuzz/zip and
// testdata/fuzz/xml. The FuzzXxx targets in this package add the same
// seeds with f.Add, so `go test -fuzz` starts from them without those files.
package main

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
)

func main() {
	outDir := "testdata/fuzz"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	seeds := map[string][][]byte{
		"zip": zipSeeds(),
		"xml": xmlSeeds(),
	}

	for kind, corpus := range seeds {
		dir := filepath.Join(outDir, kind)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", dir, err)
			os.Exit(1)
		}
		for i, seed := range corpus {
			path := filepath.Join(dir, fmt.Sprintf("seed_%03d", i))
			if err := os.WriteFile(path, seed, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
				os.Exit(1)
			}
		}
		fmt.Printf("wrote %d seeds to %s\n", len(corpus), dir)
	}
}

// zipSeeds returns a handful of minimal ZIP archives, valid and
// deliberately malformed, used to seed both FuzzZipEntries and
// FuzzWindow (the raw bytes of a valid ZIP make a reasonable starting
// point for mutating the sliding-window reader too).
func zipSeeds() [][]byte {
	valid, err := buildZip([]zipPart{{name: "hello.txt", content: []byte("hello world"), deflate: false}})
	if err != nil {
		panic(err)
	}
	deflated, err := buildZip([]zipPart{{name: "big.txt", content: bytes.Repeat([]byte("abcdefgh"), 64), deflate: true}})
	if err != nil {
		panic(err)
	}

	truncated := append([]byte(nil), valid...)
	truncated = truncated[:len(truncated)/2]

	return [][]byte{valid, deflated, truncated, {}, []byte("PK\x03\x04not a real zip")}
}

// xmlSeeds returns small well-formed and malformed XML snippets covering
// the event kinds xmlstream.Reader recognizes: elements, attributes,
// self-closing tags, CDATA, comments, and a processing instruction.
func xmlSeeds() [][]byte {
	return [][]byte{
		[]byte(`<?xml version="1.0"?><root a="1"><child/>text<![CDATA[<raw>]]></root>`),
		[]byte(`<a><b><c>nested</c></b></a>`),
		[]byte(`<!-- comment --><root/>`),
		[]byte(`<root><unclosed></root>`),
		[]byte(``),
		[]byte(`not xml at all`),
	}
}

type zipPart struct {
	name    string
	content []byte
	deflate bool
}

// buildZip writes a minimal ZIP archive by hand (matching the layout
// pkg/zipstream itself parses) so seeds do not depend on archive/zip's
// own extra-field conventions.
func buildZip(parts []zipPart) ([]byte, error) {
	var buf bytes.Buffer
	type central struct {
		name             string
		offset           uint32
		method           uint16
		crc              uint32
		compSize         uint32
		uncompSize       uint32
	}
	var centrals []central

	for _, p := range parts {
		offset := uint32(buf.Len())
		crc := crc32.ChecksumIEEE(p.content)
		method := uint16(0)
		payload := p.content
		if p.deflate {
			method = 8
			var cbuf bytes.Buffer
			fw, err := flate.NewWriter(&cbuf, flate.DefaultCompression)
			if err != nil {
				return nil, err
			}
			if _, err := fw.Write(p.content); err != nil {
				return nil, err
			}
			if err := fw.Close(); err != nil {
				return nil, err
			}
			payload = cbuf.Bytes()
		}

		nameBytes := []byte(p.name)
		binary.Write(&buf, binary.LittleEndian, uint32(0x04034b50))
		binary.Write(&buf, binary.LittleEndian, uint16(20))
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, method)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, crc)
		binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
		binary.Write(&buf, binary.LittleEndian, uint32(len(p.content)))
		binary.Write(&buf, binary.LittleEndian, uint16(len(nameBytes)))
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		buf.Write(nameBytes)
		buf.Write(payload)

		centrals = append(centrals, central{p.name, offset, method, crc, uint32(len(payload)), uint32(len(p.content))})
	}

	cdOffset := uint32(buf.Len())
	for _, c := range centrals {
		nameBytes := []byte(c.name)
		binary.Write(&buf, binary.LittleEndian, uint32(0x02014b50))
		binary.Write(&buf, binary.LittleEndian, uint16(20))
		binary.Write(&buf, binary.LittleEndian, uint16(20))
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, c.method)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, c.crc)
		binary.Write(&buf, binary.LittleEndian, c.compSize)
		binary.Write(&buf, binary.LittleEndian, c.uncompSize)
		binary.Write(&buf, binary.LittleEndian, uint16(len(nameBytes)))
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, uint32(0))
		binary.Write(&buf, binary.LittleEndian, c.offset)
		buf.Write(nameBytes)
	}
	cdSize := uint32(buf.Len()) - cdOffset

	binary.Write(&buf, binary.LittleEndian, uint32(0x06054b50))
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(len(centrals)))
	binary.Write(&buf, binary.LittleEndian, uint16(len(centrals)))
	binary.Write(&buf, binary.LittleEndian, cdSize)
	binary.Write(&buf, binary.LittleEndian, cdOffset)
	binary.Write(&buf, binary.LittleEndian, uint16(0))

	return buf.Bytes(), nil
}
