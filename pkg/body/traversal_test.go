package body

import (
	"testing"

	"github.com/leafreader/core/pkg/swr"
	"github.com/leafreader/core/pkg/xmlstream"
	"github.com/stretchr/testify/require"
)

func parseFragment(t *testing.T, inner string) *Chapter {
	t.Helper()
	doc := "<html><body>" + inner + "</body></html>"
	r, err := xmlstream.Open(swr.NewBytesSource([]byte(doc)), 4096)
	require.NoError(t, err)
	ch, err := Parse(r, nil, nil)
	require.NoError(t, err)
	return ch
}

// TestInlineStyleRunBreakdown is spec.md §8 scenario 1: a paragraph mixing
// plain text with <i>, <b> and <em> must be split into one run per
// style change, each run carrying exactly the text and style in effect
// when it was emitted.
func TestInlineStyleRunBreakdown(t *testing.T) {
	ch := parseFragment(t, "<p>Text with <i>Inline</i> styles <b>bold</b>, <em>emphasized</em> or <i>italic</i></p>")
	require.Len(t, ch.Paragraphs, 1)

	want := []Run{
		{Text: "Text with ", Style: Regular},
		{Text: "Inline", Style: Italic},
		{Text: " styles ", Style: Regular},
		{Text: "bold", Style: Bold},
		{Text: ", ", Style: Regular},
		{Text: "emphasized", Style: Italic},
		{Text: " or ", Style: Regular},
		{Text: "italic", Style: Italic},
	}
	require.Equal(t, want, ch.Paragraphs[0].Runs)
}

// TestWhitespaceCollapsing is spec.md §8's whitespace-collapsing example:
// runs of HTML whitespace, including whitespace split across element
// boundaries by non-flushing inline elements like <span>, collapse to a
// single space, and leading paragraph whitespace is dropped entirely.
func TestWhitespaceCollapsing(t *testing.T) {
	ch := parseFragment(t, "<p> Text with <span> White </span> space<span> before</span> and <span>after</span>Spans</p>")
	require.Len(t, ch.Paragraphs, 1)
	require.Len(t, ch.Paragraphs[0].Runs, 1)
	require.Equal(t, "Text with White space before and afterSpans", ch.Paragraphs[0].Runs[0].Text)
}

func TestBlockElementsStartNewParagraphs(t *testing.T) {
	ch := parseFragment(t, "<p>First</p><p>Second</p>")
	require.Len(t, ch.Paragraphs, 2)
	require.Equal(t, "First", ch.Paragraphs[0].Runs[0].Text)
	require.Equal(t, "Second", ch.Paragraphs[1].Runs[0].Text)
}

func TestNestedStyleRestoresOnClose(t *testing.T) {
	ch := parseFragment(t, "<p><b>bold <i>bolditalic</i> bold again</b> plain</p>")
	require.Len(t, ch.Paragraphs, 1)
	want := []Run{
		{Text: "bold ", Style: Bold},
		{Text: "bolditalic", Style: BoldItalic},
		{Text: " bold again", Style: Bold},
		{Text: " plain", Style: Regular},
	}
	require.Equal(t, want, ch.Paragraphs[0].Runs)
}
