package css

import (
	"strconv"
	"strings"

	"github.com/leafreader/core/pkg/report"
)

// Parse scans a restricted CSS dialect: comments are stripped first, then
// top-level rule blocks are read one at a time. At-rules are skipped
// (to the next top-level ';' if they have no block, or past the matching
// '{...}' otherwise); a rule body containing nested braces (a nested
// rule) is ignored wholesale. loc tags report entries
// with the stylesheet's origin (a file path, "<inline-style>" for a <style>
// block, or "<inline-attr>" for a style attribute) for diagnostics.
func Parse(src string, loc string, rep *report.Report) *Stylesheet {
	src = stripComments(src)
	sheet := &Stylesheet{}
	srcOrder := 0

	i := 0
	for i < len(src) {
		c := src[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		if c == '@' {
			i = skipAtRule(src, i)
			continue
		}

		// Read up to the next top-level '{' as the selector list.
		braceIdx := strings.IndexByte(src[i:], '{')
		if braceIdx < 0 {
			break
		}
		selText := src[i : i+braceIdx]
		bodyStart := i + braceIdx + 1

		bodyEnd, nested := findBlockEnd(src, bodyStart)
		if bodyEnd < 0 {
			break // unterminated block; stop parsing
		}
		body := src[bodyStart:bodyEnd]
		i = bodyEnd + 1

		if nested {
			if rep != nil {
				rep.AddWithLocation(report.Info, "CSS-NESTED-RULE", "nested rule block ignored", loc)
			}
			continue
		}

		rule := parseDeclarations(body, loc, rep)
		for _, selStr := range strings.Split(selText, ",") {
			sel, ok := parseSelector(strings.TrimSpace(selStr))
			if !ok {
				if rep != nil && strings.TrimSpace(selStr) != "" {
					rep.AddWithLocation(report.Info, "CSS-UNSUPPORTED-SELECTOR",
						"selector rejected: "+strings.TrimSpace(selStr), loc)
				}
				continue
			}
			hasID, numClass, hasElem := sel.specificity()
			sheet.entries = append(sheet.entries, entry{
				sel:  sel,
				rule: rule,
				spec: specificity{hasID: hasID, numClass: numClass, hasElem: hasElem, srcOrder: srcOrder},
			})
			srcOrder++
		}
	}
	return sheet
}

// ParseDeclarationBlock parses a bare declaration list (no selector, no
// braces) such as an inline style="..." attribute value.
func ParseDeclarationBlock(body, loc string, rep *report.Report) Rule {
	return parseDeclarations(body, loc, rep)
}

func stripComments(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				break
			}
			i += 2 + end + 2
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// skipAtRule advances past an at-rule starting at src[i] (== '@'): either
// to the byte after its terminating ';' or past its balanced '{...}'
// block, whichever comes first.
func skipAtRule(src string, i int) int {
	for j := i; j < len(src); j++ {
		switch src[j] {
		case ';':
			return j + 1
		case '{':
			end, _ := findBlockEnd(src, j+1)
			if end < 0 {
				return len(src)
			}
			return end + 1
		}
	}
	return len(src)
}

// findBlockEnd returns the index of the '}' matching the block that opened
// at bodyStart (i.e. one past the opening '{'), and whether any nested
// '{' was seen before it closed.
func findBlockEnd(src string, bodyStart int) (end int, nested bool) {
	depth := 0
	for j := bodyStart; j < len(src); j++ {
		switch src[j] {
		case '{':
			depth++
			nested = true
		case '}':
			if depth == 0 {
				return j, nested
			}
			depth--
		}
	}
	return -1, nested
}

// parseSelector accepts a single simple selector or a compound of
// element/id/classes. Anything containing whitespace (after the
// surrounding trim) or a combinator/pseudo/attribute marker is rejected.
func parseSelector(s string) (Selector, bool) {
	if s == "" {
		return Selector{}, false
	}
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '>', '+', '~', ':', '[':
			return Selector{}, false
		}
	}

	var sel Selector
	i := 0
	for i < len(s) {
		switch s[i] {
		case '#':
			j := identEnd(s, i+1)
			sel.ID = s[i+1 : j]
			i = j
		case '.':
			j := identEnd(s, i+1)
			sel.Classes = append(sel.Classes, s[i+1:j])
			i = j
		default:
			j := i
			for j < len(s) && s[j] != '#' && s[j] != '.' {
				j++
			}
			if j > i {
				sel.Element = s[i:j]
			}
			i = j
		}
	}
	if sel.Element == "" && sel.ID == "" && len(sel.Classes) == 0 {
		return Selector{}, false
	}
	return sel, true
}

func identEnd(s string, i int) int {
	j := i
	for j < len(s) && s[j] != '#' && s[j] != '.' {
		j++
	}
	return j
}

// parseDeclarations scans "prop: value;" pairs from a rule body,
// recognizing only text-align, font-style, font-weight, and text-indent,
// and silently ignoring everything else (logged at Info for visibility).
func parseDeclarations(body, loc string, rep *report.Report) Rule {
	var rule Rule
	for _, decl := range strings.Split(body, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		colon := strings.IndexByte(decl, ':')
		if colon < 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(decl[:colon]))
		val := strings.ToLower(strings.TrimSpace(decl[colon+1:]))
		if val == "" {
			continue
		}

		switch prop {
		case "text-align":
			a, ok := parseAlignment(val)
			if ok {
				rule.Alignment = &a
			} else if rep != nil {
				rep.AddWithLocation(report.Info, "CSS-UNKNOWN-VALUE", "unrecognized text-align value: "+val, loc)
			}
		case "font-style":
			switch val {
			case "italic", "oblique":
				b := true
				rule.Italic = &b
			case "normal":
				b := false
				rule.Italic = &b
			}
		case "font-weight":
			switch val {
			case "bold", "bolder":
				b := true
				rule.Bold = &b
			case "normal", "lighter":
				b := false
				rule.Bold = &b
			}
		case "text-indent":
			if px, ok := parsePixels(val); ok {
				rule.IndentPx = &px
			}
		default:
			if rep != nil {
				rep.AddWithLocation(report.Info, "CSS-UNKNOWN-PROP", "declaration ignored: "+prop, loc)
			}
		}
	}
	return rule
}

func parseAlignment(val string) (Alignment, bool) {
	switch val {
	case "start", "left":
		return AlignStart, true
	case "end", "right":
		return AlignEnd, true
	case "center":
		return AlignCenter, true
	case "justify":
		return AlignJustify, true
	default:
		return AlignUnset, false
	}
}

func parsePixels(val string) (int, bool) {
	val = strings.TrimSuffix(val, "px")
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, false
	}
	return n, true
}
