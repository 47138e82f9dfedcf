package layout

import (
	"strings"

	"github.com/leafreader/core/pkg/body"
)

// minHyphenateLen is the byte-length floor below which a word is never a
// hyphenation candidate, per spec.md §4.7.
const minHyphenateLen = 5

// Hyphenate attempts to split word into a line-ending prefix and a
// suffix that carries to the next line, for the given hyphenation
// language and remaining pixel budget (width minus the space and dash
// already reserved by the caller). It accumulates word's syllables
// greedily while their cumulative width still fits budget and always
// leaves at least one syllable for the suffix. Per the open question
// recorded in SPEC_FULL.md, only "en" has a syllable table; any other
// language reports ok=false so the caller moves the whole word to the
// next line.
func Hyphenate(word, language string, budget int, style body.FontStyle, font FontMetrics) (prefix, suffix string, ok bool) {
	if len(word) < minHyphenateLen {
		return "", "", false
	}
	if !strings.EqualFold(language, "en") {
		return "", "", false
	}
	sylls := englishSyllables(word)
	if len(sylls) < 2 {
		return "", "", false
	}

	var acc strings.Builder
	chosen := 0
	for _, s := range sylls[:len(sylls)-1] {
		candidate := acc.String() + s
		if font.WordWidth(style, candidate) > budget {
			break
		}
		acc.WriteString(s)
		chosen++
	}
	if chosen == 0 {
		return "", "", false
	}
	prefix = acc.String()
	suffix = word[len(prefix):]
	return prefix, suffix, true
}

// onsetBlends lists two-consonant clusters that stay together at the
// start of an English syllable (common initial blends and digraphs)
// rather than splitting down the middle, e.g. "ta-bles" not "tab-les".
var onsetBlends = map[string]bool{
	"bl": true, "br": true, "cl": true, "cr": true, "dr": true, "dw": true,
	"fl": true, "fr": true, "gl": true, "gr": true, "pl": true, "pr": true,
	"sc": true, "sk": true, "sl": true, "sm": true, "sn": true, "sp": true,
	"st": true, "sw": true, "tr": true, "tw": true, "wr": true,
	"ch": true, "sh": true, "th": true, "ph": true, "wh": true,
}

// englishSyllables is a lightweight vowel-group syllabifier: a single
// intervocalic consonant carries onto the following syllable, a
// recognized two-consonant onset blend (see onsetBlends) carries onto
// the following syllable whole, and any other multi-consonant cluster
// splits at its midpoint between two vowel groups. It is a greedy
// approximation, not a dictionary-backed hyphenator; concatenating its
// return value always reconstructs word exactly.
func englishSyllables(word string) []string {
	runes := []rune(word)
	n := len(runes)

	var vowelStart []int
	for i := 0; i < n; {
		if isVowel(runes[i]) {
			vowelStart = append(vowelStart, i)
			for i < n && isVowel(runes[i]) {
				i++
			}
			continue
		}
		i++
	}
	if len(vowelStart) <= 1 {
		return []string{word}
	}

	var splits []int
	for k := 1; k < len(vowelStart); k++ {
		prevEnd := vowelStart[k-1]
		for prevEnd < n && isVowel(runes[prevEnd]) {
			prevEnd++
		}
		consonants := vowelStart[k] - prevEnd
		var split int
		switch {
		case consonants <= 1:
			split = vowelStart[k]
		case consonants == 2 && onsetBlends[strings.ToLower(string(runes[prevEnd:prevEnd+2]))]:
			split = prevEnd
		default:
			split = prevEnd + consonants/2
		}
		splits = append(splits, split)
	}

	sylls := make([]string, 0, len(splits)+1)
	start := 0
	for _, s := range splits {
		sylls = append(sylls, string(runes[start:s]))
		start = s
	}
	sylls = append(sylls, string(runes[start:]))
	return sylls
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y', 'A', 'E', 'I', 'O', 'U', 'Y':
		return true
	default:
		return false
	}
}
