package css

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// defaultCacheSize bounds the per-stylesheet Get cache; pkg/body calls Get
// once per start-element and most chapters repeat a small set of tag/class
// combinations many times over.
const defaultCacheSize = 512

// Cascade wraps a Stylesheet with a bounded LRU cache over resolved Get
// results, since the same (element, id, classes) tuple recurs constantly
// across a chapter's elements.
type Cascade struct {
	sheet *Stylesheet
	cache *lru.Cache
}

// NewCascade builds a cascade over sheet with a bounded result cache.
func NewCascade(sheet *Stylesheet) *Cascade {
	cache, _ := lru.New(defaultCacheSize)
	return &Cascade{sheet: sheet, cache: cache}
}

// Get resolves the cascaded Rule for (element, id, classes): every
// matching entry contributes, ordered by ascending (specificity,
// source-index), composed left-biased right-to-left so that later
// (winning) entries override earlier ones.
func (c *Cascade) Get(element, id string, classes []string) Rule {
	key := cacheKey(element, id, classes)
	if v, ok := c.cache.Get(key); ok {
		return v.(Rule)
	}
	rule := c.sheet.Get(element, id, classes)
	c.cache.Add(key, rule)
	return rule
}

func cacheKey(element, id string, classes []string) string {
	sorted := append([]string(nil), classes...)
	sort.Strings(sorted)
	return element + "\x00" + id + "\x00" + strings.Join(sorted, ",")
}

// Get resolves the cascaded Rule directly against the stylesheet, with no
// cache. Order of application: ascending specificity, then ascending
// source order; each matching entry is composed so that later entries win
// over earlier ones — i.e. each entry, taken in that order, is applied as
// the left operand of Plus over the accumulator, since Plus keeps its left
// (newly applied, higher-priority) side.
func (s *Stylesheet) Get(element, id string, classes []string) Rule {
	var matched []entry
	for _, e := range s.entries {
		if e.sel.Matches(element, id, classes) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i].spec, matched[j].spec)
	})

	// Fold ascending: each subsequent (higher-priority) rule's set fields
	// override the accumulator, since Plus keeps its left operand's set
	// fields and falls back to the right for the rest.
	var out Rule
	for _, e := range matched {
		out = e.rule.Plus(out)
	}
	return out
}
