package epub

import (
	"net/url"
	"path"

	iradix "github.com/hashicorp/go-immutable-radix"
	"golang.org/x/text/unicode/norm"

	"github.com/leafreader/core/pkg/zipstream"
)

// newFileResolver indexes entries by their NFC-normalized path so that an
// href built from NFD-decomposed Unicode (common from OPF files produced
// on macOS) still finds an NFC-encoded ZIP entry name.
func newFileResolver(entries []zipstream.Entry) *FileResolver {
	tree := iradix.New()
	for i, e := range entries {
		key := []byte(norm.NFC.String(e.Name))
		tree, _, _ = tree.Insert(key, i)
	}
	return &FileResolver{Entries: entries, index: tree}
}

// Resolve maps an OPF-relative href, resolved against base (the directory
// containing the referencing document), to an index into Entries.
func (r *FileResolver) Resolve(base, href string) (int, bool) {
	decoded, err := url.PathUnescape(href)
	if err != nil {
		decoded = href
	}
	// Strip any fragment; callers that need it extract it before calling.
	if i := indexByte(decoded, '#'); i >= 0 {
		decoded = decoded[:i]
	}
	if decoded == "" {
		return 0, false
	}
	decoded = norm.NFC.String(decoded)

	var full string
	if path.IsAbs(decoded) {
		full = path.Clean(decoded)
	} else if base == "" || base == "." {
		full = path.Clean(decoded)
	} else {
		full = path.Clean(base + "/" + decoded)
	}
	full = trimLeadingSlash(full)

	v, ok := r.index.Get([]byte(full))
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// ResolveName is Resolve for an href that is already a full archive-root
// relative path (no base to join against), e.g. the container.xml
// rootfile full-path.
func (r *FileResolver) ResolveName(name string) (int, bool) {
	v, ok := r.index.Get([]byte(norm.NFC.String(name)))
	if !ok {
		return 0, false
	}
	return v.(int), true
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func trimLeadingSlash(s string) string {
	for len(s) > 0 && s[0] == '/' {
		s = s[1:]
	}
	return s
}
