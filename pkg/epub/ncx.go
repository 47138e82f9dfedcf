package epub

import (
	"strings"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/leafreader/core/pkg/xmlstream"
)

// tocRecord is the memdb row backing one NCX navPoint: its preorder
// position (the table's unique id) and the manifest entry it resolves
// to, so a reader can jump from "which chapter is the device currently
// on" to "what should the table-of-contents panel highlight" without a
// linear scan of Epub.Toc.
type tocRecord struct {
	Order      int
	Depth      int
	Label      string
	EntryIndex int
	Fragment   string
}

var tocSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"toc": {
			Name: "toc",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "Order"},
				},
				"entry": {
					Name:    "entry",
					Unique:  false,
					Indexer: &memdb.IntFieldIndex{Field: "EntryIndex"},
				},
			},
		},
	},
}

// memTocDB wraps the memdb handle a tocIndex queries.
type memTocDB struct {
	db *memdb.MemDB
}

func newTocIndex(entries []TocEntry) (*tocIndex, error) {
	db, err := memdb.NewMemDB(tocSchema)
	if err != nil {
		return nil, err
	}
	txn := db.Txn(true)
	for i, e := range entries {
		rec := &tocRecord{Order: i, Depth: e.Depth, Label: e.Label, EntryIndex: e.EntryIndex, Fragment: e.Fragment}
		if err := txn.Insert("toc", rec); err != nil {
			txn.Abort()
			return nil, err
		}
	}
	txn.Commit()
	return &tocIndex{db: &memTocDB{db: db}}, nil
}

// LookupByEntry returns the first (lowest preorder) TOC entry whose
// content href resolved to the given manifest entry index, used to label
// the chapter currently on screen with its table-of-contents heading.
func (t *tocIndex) LookupByEntry(entryIndex int) (TocEntry, bool) {
	if t == nil {
		return TocEntry{}, false
	}
	txn := t.db.db.Txn(false)
	it, err := txn.Get("toc", "entry", entryIndex)
	if err != nil {
		return TocEntry{}, false
	}
	raw := it.Next()
	if raw == nil {
		return TocEntry{}, false
	}
	rec := raw.(*tocRecord)
	return TocEntry{Depth: rec.Depth, Label: rec.Label, EntryIndex: rec.EntryIndex, Fragment: rec.Fragment}, true
}

// rawNavPoint is one <navPoint> before its content href is resolved
// against the FileResolver.
type rawNavPoint struct {
	Depth int
	Label string
	Src   string
}

// parseNCX reads an NCX document's navMap in document (preorder) order.
// Nesting depth is tracked with a plain counter rather than scanning the
// element stack for navPoint specifically, since nothing else in an NCX
// document nests arbitrarily deep.
func parseNCX(r *xmlstream.Reader) ([]rawNavPoint, error) {
	var points []rawNavPoint
	depth := 0
	inLabel := false
	inText := false
	var labelBuf string
	var pending *rawNavPoint

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
			switch name {
			case "navpoint":
				depth++
				points = append(points, rawNavPoint{Depth: depth - 1})
				pending = &points[len(points)-1]
			case "navlabel":
				inLabel = true
				labelBuf = ""
			case "text":
				if inLabel {
					inText = true
				}
			case "content":
				if pending != nil {
					if src, ok := xmlstream.NewAttributes(ev.AttrBlock).Get("src"); ok {
						pending.Src = src
					}
				}
			}
			if ev.SelfClosing && name != "navpoint" {
				if name == "text" {
					inText = false
				}
				if name == "navlabel" {
					inLabel = false
				}
			}
		case xmlstream.KindEndElement:
			switch localName(ev.Name) {
			case "navpoint":
				depth--
				pending = nil
			case "navlabel":
				if pending != nil {
					pending.Label = strings.TrimSpace(labelBuf)
				}
				inLabel = false
			case "text":
				inText = false
			}
		case xmlstream.KindText:
			if inText {
				labelBuf += string(ev.Text)
			}
		}
	}

	return points, nil
}
