// Package css implements a restricted CSS subset: a tokenizer for a
// small rule-block dialect, a cascade over (element, id, classes)
// selectors, and a left-biased Rule composition. The declaration scanner
// is adapted from a property/line scanner originally written to flag
// bad declarations, repurposed here to build a cascade instead.
package css

// Alignment is the resolved value of the text-align declaration.
type Alignment int

const (
	AlignUnset Alignment = iota
	AlignStart
	AlignCenter
	AlignEnd
	AlignJustify
)

// Rule is the small, composable set of declarations this dialect
// recognizes. Every field is a pointer so "not set" and "set to a falsy
// value" are distinguishable; composition is a left-biased merge:
// fields already set in the left operand are preserved.
type Rule struct {
	Alignment *Alignment
	Italic    *bool
	Bold      *bool
	IndentPx  *int
}

// Plus composes r with rhs, left-biased: any field already set in r wins.
// Rule{}.Plus(x) == x and x.Plus(Rule{}) == x for every x.
func (r Rule) Plus(rhs Rule) Rule {
	out := r
	if out.Alignment == nil {
		out.Alignment = rhs.Alignment
	}
	if out.Italic == nil {
		out.Italic = rhs.Italic
	}
	if out.Bold == nil {
		out.Bold = rhs.Bold
	}
	if out.IndentPx == nil {
		out.IndentPx = rhs.IndentPx
	}
	return out
}

// Selector is a simple (element, id, classes) match; compound selectors
// combining more than these (descendant combinators, pseudo-classes,
// attribute selectors) are rejected by the parser and never produced.
type Selector struct {
	Element string // "" means no element constraint
	ID      string // "" means no id constraint
	Classes []string
}

// Matches reports whether the selector matches the given element/id/
// classes triple. An empty selector field is a wildcard for that axis.
func (s Selector) Matches(element, id string, classes []string) bool {
	if s.Element != "" && s.Element != element {
		return false
	}
	if s.ID != "" && s.ID != id {
		return false
	}
	for _, want := range s.Classes {
		if !hasClass(classes, want) {
			return false
		}
	}
	return true
}

func hasClass(classes []string, want string) bool {
	for _, c := range classes {
		if c == want {
			return true
		}
	}
	return false
}

// specificity is the (has-id, #classes, has-element) triple the cascade
// orders by, ascending, so later-applied (higher-specificity, or
// equal-specificity-but-later-source) rules override earlier ones.
type specificity struct {
	hasID     int
	numClass  int
	hasElem   int
	srcOrder  int
}

func (s Selector) specificity() (hasID, numClass, hasElem int) {
	if s.ID != "" {
		hasID = 1
	}
	if s.Element != "" {
		hasElem = 1
	}
	return hasID, len(s.Classes), hasElem
}

func less(a, b specificity) bool {
	if a.hasID != b.hasID {
		return a.hasID < b.hasID
	}
	if a.numClass != b.numClass {
		return a.numClass < b.numClass
	}
	if a.hasElem != b.hasElem {
		return a.hasElem < b.hasElem
	}
	return a.srcOrder < b.srcOrder
}

// entry is one (Selector, Rule) pair in source order, as stored in a
// Stylesheet.
type entry struct {
	sel  Selector
	rule Rule
	spec specificity
}

// Stylesheet is an ordered list of (Selector, Rule) pairs, as produced by
// Parse, ready for cascade resolution via Get.
type Stylesheet struct {
	entries []entry
}

// Merge concatenates sheets into one Stylesheet, renumbering srcOrder so
// that entries from a later sheet in the argument list always win a
// tie against an equally specific entry from an earlier one, matching
// ordinary CSS cascade semantics for equal specificity. Used to combine
// several manifest-linked external stylesheets (applied in <link>
// order) into the single cascade pkg/body expects.
func Merge(sheets ...*Stylesheet) *Stylesheet {
	out := &Stylesheet{}
	order := 0
	for _, s := range sheets {
		if s == nil {
			continue
		}
		for _, e := range s.entries {
			e.spec.srcOrder = order
			order++
			out.entries = append(out.entries, e)
		}
	}
	return out
}
