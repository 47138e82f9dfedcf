// Package epub implements the EPUB orchestrator (C-EPUB): it resolves the
// container rootfile, parses the OPF (metadata, manifest, spine),
// optionally parses the NCX table of contents, and turns a spine index
// into a Chapter of typed paragraphs, all on top of the bounded-memory
// zipstream/xmlstream readers below it.
package epub

import (
	uuid "github.com/gofrs/uuid"
	iradix "github.com/hashicorp/go-immutable-radix"
	"golang.org/x/text/language"

	"github.com/leafreader/core/pkg/body"
	"github.com/leafreader/core/pkg/report"
	"github.com/leafreader/core/pkg/swr"
	"github.com/leafreader/core/pkg/zipstream"
)

// MediaType is the closed set of manifest media types this module cares
// about; anything else maps to MediaUnknown and is otherwise ignored.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaImage
	MediaXhtml
	MediaCSS
	MediaNCX
)

func parseMediaType(s string) MediaType {
	switch s {
	case "application/xhtml+xml":
		return MediaXhtml
	case "text/css":
		return MediaCSS
	case "application/x-dtbncx+xml":
		return MediaNCX
	case "image/jpeg", "image/png", "image/gif", "image/svg+xml", "image/webp":
		return MediaImage
	default:
		return MediaUnknown
	}
}

// ManifestItem is one <item> of the OPF manifest.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  MediaType
	EntryIndex int // index into FileResolver.Entries; -1 if unresolved
}

// SpineItem is one <itemref> of the OPF spine, resolved against the
// manifest.
type SpineItem struct {
	IDRef       string
	ManifestIdx int // index into Epub.Manifest; -1 if idref was missing
}

// TocEntry is one <navPoint> of the NCX navMap, in preorder.
type TocEntry struct {
	Depth      int
	Label      string
	EntryIndex int // resolved manifest entry the content href points to; -1 if unresolved
	Fragment   string
}

// Metadata holds the small set of OPF metadata fields this module reads.
type Metadata struct {
	Title    string
	Author   string
	Language string
	LangTag  language.Tag
	CoverID  string
}

// FileResolver maps OPF-relative hrefs to ZIP entry indices. It is built
// once per Open and is safe to share read-only afterward: its backing
// index is an immutable radix tree, so further lookups never mutate it.
type FileResolver struct {
	Entries []zipstream.Entry
	Prefix  string
	index   *iradix.Tree
}

// tocIndex is the memdb-backed lookup over the parsed NCX navMap.
type tocIndex struct {
	db *memTocDB
}

// Epub is a fully opened, read-only EPUB structure. Building one parses
// the ZIP directory, container.xml, the OPF, and (if present) the NCX;
// extracting a Chapter borrows the source again, exclusively, for the
// duration of one chapter parse.
type Epub struct {
	Resolver *FileResolver
	Manifest []ManifestItem
	Spine    []SpineItem
	Metadata Metadata
	Toc      []TocEntry
	toc      *tocIndex // nil if no NCX

	SessionID uuid.UUID
	Report    *report.Report

	src          swr.ByteSource // the archive itself; reopened per entry
	rootfilePath string
}

// Chapter, Paragraph, and Run are re-exported from pkg/body so callers of
// pkg/epub never need to import it directly for the data Chapter()
// returns.
type (
	Chapter   = body.Chapter
	Paragraph = body.Paragraph
	Run       = body.Run
)
