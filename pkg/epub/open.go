package epub

import (
	"fmt"
	"path"
	"strings"

	uuid "github.com/gofrs/uuid"
	"golang.org/x/text/language"

	"github.com/leafreader/core/pkg/report"
	"github.com/leafreader/core/pkg/swr"
	"github.com/leafreader/core/pkg/xmlstream"
	"github.com/leafreader/core/pkg/zipstream"
)

// windowSize is the sliding-window capacity used for every XML document
// this package reads (container.xml, content.opf, the NCX, and each
// chapter's XHTML body). It bounds the longest single tag or text run
// xmlstream may need to hold in memory at once.
const windowSize = 64 * 1024

// Open parses a complete EPUB archive: the ZIP directory, the container
// rootfile, the OPF's metadata/manifest/spine, and, if present, the NCX
// table of contents. src is retained on the returned Epub and reopened
// per chapter; it must support Seek for the lifetime of the Epub.
func Open(src swr.ByteSource, rep *report.Report) (*Epub, error) {
	entries, err := zipstream.ParseZip(src)
	if err != nil {
		return nil, err
	}
	resolver := newFileResolver(entries)

	containerIdx, ok := resolver.ResolveName("META-INF/container.xml")
	if !ok {
		return nil, ErrContainerMissing
	}
	rootfilePath, err := readRootfilePath(src, entries[containerIdx])
	if err != nil {
		return nil, err
	}
	if rootfilePath == "" {
		return nil, ErrNoRootfile
	}

	opfIdx, ok := resolver.ResolveName(rootfilePath)
	if !ok {
		return nil, ErrOPFMissing
	}
	opfBase := path.Dir(rootfilePath)
	if opfBase == "." {
		opfBase = ""
	}

	opfRes, err := readOPF(src, entries[opfIdx], rep)
	if err != nil {
		return nil, err
	}

	manifest := make([]ManifestItem, len(opfRes.Manifest))
	idToManifest := make(map[string]int, len(opfRes.Manifest))
	for i, raw := range opfRes.Manifest {
		entryIdx, ok := resolver.Resolve(opfBase, raw.Href)
		if !ok {
			entryIdx = -1
			if rep != nil {
				rep.AddWithLocation(report.Warning, "MANIFEST-UNRESOLVED", "manifest href not found in archive", raw.Href)
			}
		}
		manifest[i] = ManifestItem{ID: raw.ID, Href: raw.Href, MediaType: parseMediaType(raw.MediaType), EntryIndex: entryIdx}
		idToManifest[raw.ID] = i
	}

	spine := make([]SpineItem, len(opfRes.Spine))
	for i, raw := range opfRes.Spine {
		mi, ok := idToManifest[raw.IDRef]
		if !ok {
			mi = -1
			if rep != nil {
				rep.AddWithLocation(report.Warning, "SPINE-UNRESOLVED", "spine idref not found in manifest", raw.IDRef)
			}
		}
		spine[i] = SpineItem{IDRef: raw.IDRef, ManifestIdx: mi}
	}

	meta := opfRes.Meta
	meta.LangTag = parseLanguageTag(meta.Language, rep)

	var toc []TocEntry
	var idx *tocIndex
	if opfRes.NcxID != "" {
		if mi, ok := idToManifest[opfRes.NcxID]; ok && manifest[mi].EntryIndex >= 0 {
			toc, idx, err = readNCX(src, entries[manifest[mi].EntryIndex], opfBase, resolver, rep)
			if err != nil && rep != nil {
				rep.AddWithLocation(report.Warning, "NCX-PARSE-FAILED", err.Error(), opfRes.NcxID)
			}
		}
	}

	sessionID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("epub: generating session id: %w", err)
	}

	return &Epub{
		Resolver:     resolver,
		Manifest:     manifest,
		Spine:        spine,
		Metadata:     meta,
		Toc:          toc,
		toc:          idx,
		SessionID:    sessionID,
		Report:       rep,
		src:          src,
		rootfilePath: rootfilePath,
	}, nil
}

// CoverEntry resolves the manifest item named by the OPF's cover meta
// tag to an archive entry index, falling back to the first image-typed
// manifest item if no explicit cover was declared.
func (e *Epub) CoverEntry() (int, bool) {
	if e.Metadata.CoverID != "" {
		for _, m := range e.Manifest {
			if m.ID == e.Metadata.CoverID && m.EntryIndex >= 0 {
				return m.EntryIndex, true
			}
		}
	}
	for _, m := range e.Manifest {
		if m.MediaType == MediaImage && m.EntryIndex >= 0 {
			return m.EntryIndex, true
		}
	}
	return 0, false
}

// TocLabelFor returns the table-of-contents label covering the manifest
// entry at entryIndex, if the archive had an NCX.
func (e *Epub) TocLabelFor(entryIndex int) (TocEntry, bool) {
	return e.toc.LookupByEntry(entryIndex)
}

// Flatten returns the preorder table of contents with each entry's
// nesting depth, for an outer UI that renders an indented TOC list.
func (e *Epub) Flatten() []TocEntry { return e.Toc }

// ChapterCount returns the number of spine entries, satisfying
// paginate.ChapterSource so an Epub can be paginated directly.
func (e *Epub) ChapterCount() int { return len(e.Spine) }

func readRootfilePath(src swr.ByteSource, entry zipstream.Entry) (string, error) {
	es, err := zipstream.OpenEntry(src, entry)
	if err != nil {
		return "", err
	}
	defer es.Close()

	window, err := swr.New(newEntrySource(es, entry.UncompressedSize), make([]byte, windowSize))
	if err != nil {
		return "", err
	}
	r := xmlstream.New(window)

	for {
		ev, err := r.NextEvent()
		if err != nil {
			return "", err
		}
		if ev.Kind == xmlstream.KindEndOfFile {
			return "", nil
		}
		if ev.Kind == xmlstream.KindStartElement && localName(ev.Name) == "rootfile" {
			if fp, ok := xmlstream.NewAttributes(ev.AttrBlock).Get("full-path"); ok {
				return fp, nil
			}
		}
	}
}

func readOPF(src swr.ByteSource, entry zipstream.Entry, rep *report.Report) (*opfResult, error) {
	es, err := zipstream.OpenEntry(src, entry)
	if err != nil {
		return nil, err
	}
	defer es.Close()

	window, err := swr.New(newEntrySource(es, entry.UncompressedSize), make([]byte, windowSize))
	if err != nil {
		return nil, err
	}
	return parseOPF(xmlstream.New(window), rep)
}

func readNCX(src swr.ByteSource, entry zipstream.Entry, opfBase string, resolver *FileResolver, rep *report.Report) ([]TocEntry, *tocIndex, error) {
	es, err := zipstream.OpenEntry(src, entry)
	if err != nil {
		return nil, nil, err
	}
	defer es.Close()

	window, err := swr.New(newEntrySource(es, entry.UncompressedSize), make([]byte, windowSize))
	if err != nil {
		return nil, nil, err
	}
	raw, err := parseNCX(xmlstream.New(window))
	if err != nil {
		return nil, nil, err
	}

	toc := make([]TocEntry, len(raw))
	for i, rp := range raw {
		href := rp.Src
		fragment := ""
		if hi := strings.IndexByte(href, '#'); hi >= 0 {
			fragment = href[hi+1:]
		}
		entryIdx, ok := resolver.Resolve(opfBase, href)
		if !ok {
			entryIdx = -1
			if rep != nil {
				rep.AddWithLocation(report.Warning, "TOC-UNRESOLVED", "navPoint content href not found", href)
			}
		}
		toc[i] = TocEntry{Depth: rp.Depth, Label: rp.Label, EntryIndex: entryIdx, Fragment: fragment}
	}

	idx, err := newTocIndex(toc)
	if err != nil {
		return toc, nil, err
	}
	return toc, idx, nil
}

func parseLanguageTag(lang string, rep *report.Report) language.Tag {
	if lang == "" {
		return language.Und
	}
	tag, err := language.Parse(lang)
	if err != nil {
		if rep != nil {
			rep.AddWithLocation(report.Info, "LANG-UNPARSEABLE", "unrecognized language tag: "+lang, lang)
		}
		return language.Und
	}
	return tag
}
