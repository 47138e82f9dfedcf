package epub

import (
	"strings"

	"github.com/leafreader/core/pkg/body"
	"github.com/leafreader/core/pkg/css"
	"github.com/leafreader/core/pkg/report"
	"github.com/leafreader/core/pkg/swr"
	"github.com/leafreader/core/pkg/xmlstream"
	"github.com/leafreader/core/pkg/zipstream"
)

// Chapter extracts and parses the spine's index-th document into a
// styled-run Chapter. It opens the entry's bytes twice: once to collect
// any manifest-linked external stylesheets named by <link> tags in the
// document head, and once more to run the real body traversal, since the
// inline-first cascade body.Parse applies needs every external
// stylesheet resolved before the first element is seen.
func (e *Epub) Chapter(index int) (*Chapter, error) {
	if index < 0 || index >= len(e.Spine) {
		return nil, ErrSpineIndex
	}
	sp := e.Spine[index]
	if sp.ManifestIdx < 0 {
		return nil, ErrSpineIndex
	}
	item := e.Manifest[sp.ManifestIdx]
	if item.EntryIndex < 0 {
		return nil, ErrSpineIndex
	}
	entry := e.Resolver.Entries[item.EntryIndex]
	base := joinBase(opfBaseOf(e.rootfilePath), dirOf(item.Href))

	links, err := e.scanStylesheetLinks(entry)
	if err != nil {
		return nil, err
	}

	var sheets []*css.Stylesheet
	for _, href := range links {
		entryIdx, ok := e.Resolver.Resolve(base, href)
		if !ok {
			if e.Report != nil {
				e.Report.AddWithLocation(report.Warning, "STYLESHEET-UNRESOLVED", "linked stylesheet not found", href)
			}
			continue
		}
		src, err := e.readEntryBytes(e.Resolver.Entries[entryIdx])
		if err != nil {
			if e.Report != nil {
				e.Report.AddWithLocation(report.Warning, "STYLESHEET-READ-FAILED", err.Error(), href)
			}
			continue
		}
		sheets = append(sheets, css.Parse(string(src), href, e.Report))
	}
	external := css.NewCascade(css.Merge(sheets...))

	es, err := zipstream.OpenEntry(e.src, entry)
	if err != nil {
		return nil, err
	}
	defer es.Close()
	window, err := swr.New(newEntrySource(es, entry.UncompressedSize), make([]byte, windowSize))
	if err != nil {
		return nil, err
	}
	ch, err := body.Parse(xmlstream.New(window), external, e.Report)
	if err != nil {
		return nil, err
	}
	if toc, ok := e.toc.LookupByEntry(item.EntryIndex); ok {
		ch.Title = toc.Label
	}
	return ch, nil
}

// scanStylesheetLinks opens entry once and collects every
// <link rel="stylesheet" href="..."> in its head, stopping at the first
// <body>.
func (e *Epub) scanStylesheetLinks(entry zipstream.Entry) ([]string, error) {
	es, err := zipstream.OpenEntry(e.src, entry)
	if err != nil {
		return nil, err
	}
	defer es.Close()
	window, err := swr.New(newEntrySource(es, entry.UncompressedSize), make([]byte, windowSize))
	if err != nil {
		return nil, err
	}
	r := xmlstream.New(window)

	var links []string
	for {
		ev, err := r.NextEvent()
		if err != nil {
			return nil, err
		}
		if ev.Kind == xmlstream.KindEndOfFile {
			break
		}
		if ev.Kind != xmlstream.KindStartElement {
			continue
		}
		name := localName(ev.Name)
		if name == "body" {
			break
		}
		if name != "link" {
			continue
		}
		attrs := xmlstream.NewAttributes(ev.AttrBlock)
		rel, _ := attrs.Get("rel")
		if !strings.EqualFold(rel, "stylesheet") {
			continue
		}
		if href, ok := attrs.Get("href"); ok {
			links = append(links, href)
		}
	}
	return links, nil
}

func (e *Epub) readEntryBytes(entry zipstream.Entry) ([]byte, error) {
	es, err := zipstream.OpenEntry(e.src, entry)
	if err != nil {
		return nil, err
	}
	defer es.Close()
	return es.ReadToEnd()
}

func dirOf(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// opfBaseOf returns the directory containing the OPF rootfile, the base
// every manifest Href is itself relative to.
func opfBaseOf(rootfilePath string) string {
	return dirOf(rootfilePath)
}

// joinBase joins an OPF-relative directory with a document-relative
// directory into a single base for FileResolver.Resolve.
func joinBase(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "/" + b
	}
}
