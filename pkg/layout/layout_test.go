package layout

import (
	"testing"

	"github.com/leafreader/core/pkg/body"
	"github.com/leafreader/core/pkg/css"
	"github.com/stretchr/testify/require"
)

// fixedFont is a monospace FontMetrics stub: every glyph is charW pixels
// wide regardless of style, so widths are predictable in tests.
type fixedFont struct {
	charW int
}

func (f fixedFont) WordWidth(_ body.FontStyle, word string) int { return len([]rune(word)) * f.charW }
func (f fixedFont) SpaceWidth(_ body.FontStyle) int              { return f.charW }
func (f fixedFont) DashWidth(_ body.FontStyle) int               { return f.charW }

// TestJustificationRemainder is spec.md §8 scenario 4: width 100 with 7
// pixels of unused trailing space distributed over 3 gaps gives
// increments (3, 2, 2) and cumulative offsets +3, +5, +7 on words 2-4.
func TestJustificationRemainder(t *testing.T) {
	texts := []Text{{Text: "a", X: 0}, {Text: "b", X: 10}, {Text: "c", X: 20}, {Text: "d", X: 30}}
	line := justifyAlign(texts, 100, 93)

	require.Equal(t, 0, line.Texts[0].X)
	require.Equal(t, 13, line.Texts[1].X)
	require.Equal(t, 25, line.Texts[2].X)
	require.Equal(t, 37, line.Texts[3].X)
}

func TestJustifyAlignSingleWordUnchanged(t *testing.T) {
	texts := []Text{{Text: "solo", X: 4}}
	line := justifyAlign(texts, 100, 20)
	require.Equal(t, texts, line.Texts)
}

func TestNudgeAlignCenterAndEnd(t *testing.T) {
	texts := []Text{{Text: "a", X: 0}, {Text: "b", X: 10}}
	center := nudgeAlign(texts, css.AlignCenter, 100, 20)
	require.Equal(t, 40, center.Texts[0].X)
	require.Equal(t, 50, center.Texts[1].X)

	end := nudgeAlign(texts, css.AlignEnd, 100, 20)
	require.Equal(t, 80, end.Texts[0].X)
	require.Equal(t, 90, end.Texts[1].X)
}

// TestHyphenateTablesSplitsBeforeBlend validates the fix for the
// consonant-blend onset: "tables" must hyphenate as prefix "ta" / suffix
// "bles", per spec.md §8 scenario 5, not "tab"/"les".
func TestHyphenateTablesSplitsBeforeBlend(t *testing.T) {
	font := fixedFont{charW: 6}
	prefix, suffix, ok := Hyphenate("tables", "en", 100, body.Regular, font)
	require.True(t, ok)
	require.Equal(t, "ta", prefix)
	require.Equal(t, "bles", suffix)
}

func TestHyphenateRejectsShortWords(t *testing.T) {
	font := fixedFont{charW: 6}
	_, _, ok := Hyphenate("cat", "en", 100, body.Regular, font)
	require.False(t, ok)
}

func TestHyphenateRejectsNonEnglish(t *testing.T) {
	font := fixedFont{charW: 6}
	_, _, ok := Hyphenate("tables", "fr", 100, body.Regular, font)
	require.False(t, ok)
}

// TestHyphenateNoBudgetFails covers the "no prefix fits" path: with a
// near-zero budget even the first syllable cannot fit, so the whole word
// must move to the next line instead.
func TestHyphenateNoBudgetFails(t *testing.T) {
	font := fixedFont{charW: 6}
	_, _, ok := Hyphenate("tables", "en", 1, body.Regular, font)
	require.False(t, ok)
}

// TestLayoutHyphenatesAcrossLines is spec.md §8 scenario 5 exercised
// through the full Layout pipeline: a line too narrow for "tables" but
// wide enough for "ta-" hyphenates, and the suffix "bles" opens the next
// line.
func TestLayoutHyphenatesAcrossLines(t *testing.T) {
	font := fixedFont{charW: 6}
	runs := []body.Run{{Text: "a tables", Style: body.Regular}}
	// width: "a" (6) + space (6) + "ta" (12) + dash (6) = 30, leaves no
	// room for "bles" (24) on the same line.
	lines := Layout(runs, Options{Width: 31, Language: "en", Font: font}, css.AlignStart, 0)

	require.True(t, len(lines) >= 2)
	require.True(t, lines[0].Hyphenated)
	last := lines[0].Texts[len(lines[0].Texts)-1]
	require.Equal(t, "ta", last.Text)
	require.Equal(t, "bles", lines[1].Texts[0].Text)
}

// TestLayoutWordsNeverExceedWidth is spec.md §8's quantified layout
// invariant: when width exceeds space_width + the widest word, every
// placed word satisfies x + word_width <= width.
func TestLayoutWordsNeverExceedWidth(t *testing.T) {
	font := fixedFont{charW: 4}
	runs := []body.Run{{Text: "the quick brown fox jumps over the lazy dog", Style: body.Regular}}
	width := 60
	lines := Layout(runs, Options{Width: width, Language: "en", Font: font}, css.AlignStart, 0)

	require.NotEmpty(t, lines)
	for _, line := range lines {
		for _, txt := range line.Texts {
			w := font.WordWidth(body.Regular, txt.Text)
			require.LessOrEqual(t, txt.X+w, width)
		}
	}
}
