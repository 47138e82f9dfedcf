package epub

import (
	"strings"

	"github.com/leafreader/core/pkg/report"
	"github.com/leafreader/core/pkg/xmlstream"
)

// opfResult is the raw parse of a content.opf document, before any href
// has been resolved against the FileResolver.
type opfResult struct {
	Manifest []rawManifestItem
	Spine    []rawSpineItem
	Meta     Metadata
	NcxID    string // manifest id the spine's toc="..." attribute names
}

type rawManifestItem struct {
	ID, Href, MediaType string
}

type rawSpineItem struct {
	IDRef string
}

// parseOPF reads a content.opf document's metadata, manifest, and spine.
// It does not resolve any href; the caller joins each one against the
// OPF's own directory once parsing is done.
func parseOPF(r *xmlstream.Reader, rep *report.Report) (*opfResult, error) {
	var res opfResult
	var stack []string

	for {
		ev, err := r.NextEvent()
		if err != nil {
			return nil, err
		}
		if ev.Kind == xmlstream.KindEndOfFile {
			break
		}

		switch ev.Kind {
		case xmlstream.KindStartElement:
			name := localName(ev.Name)
			stack = append(stack, name)
			attrs := xmlstream.NewAttributes(ev.AttrBlock)

			switch name {
			case "item":
				var item rawManifestItem
				for {
					n, v, ok := attrs.Next()
					if !ok {
						break
					}
					switch strings.ToLower(string(n)) {
					case "id":
						item.ID = string(v)
					case "href":
						item.Href = string(v)
					case "media-type":
						item.MediaType = string(v)
					}
				}
				res.Manifest = append(res.Manifest, item)
			case "itemref":
				if idref, ok := attrs.Get("idref"); ok {
					res.Spine = append(res.Spine, rawSpineItem{IDRef: idref})
				}
			case "spine":
				if toc, ok := attrs.Get("toc"); ok {
					res.NcxID = toc
				}
			case "meta":
				metaName, _ := attrs.Get("name")
				if strings.EqualFold(metaName, "cover") {
					if content, ok := attrs.Get("content"); ok {
						res.Meta.CoverID = content
					}
				}
			}
			if ev.SelfClosing {
				stack = stack[:len(stack)-1]
			}
		case xmlstream.KindEndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xmlstream.KindText:
			if len(stack) == 0 {
				continue
			}
			switch stack[len(stack)-1] {
			case "title":
				res.Meta.Title += string(ev.Text)
			case "creator":
				res.Meta.Author += string(ev.Text)
			case "language":
				res.Meta.Language += string(ev.Text)
			}
		}
	}

	res.Meta.Title = strings.TrimSpace(res.Meta.Title)
	res.Meta.Author = strings.TrimSpace(res.Meta.Author)
	res.Meta.Language = strings.TrimSpace(res.Meta.Language)
	return &res, nil
}

// localName strips a namespace prefix ("dc:title" -> "title") so callers
// never have to special-case the Dublin Core prefix OPF metadata
// conventionally uses.
func localName(qname []byte) string {
	s := string(qname)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}
