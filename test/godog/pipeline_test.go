// Package godog_test runs Gherkin scenarios over the full
// Open -> Chapter -> Layout -> Paginate -> Render pipeline, replacing the
// donor's epubcheck-conformance suite (which drove validate.Validate
// against the epubcheck fixture corpus) with an equivalent end-to-end
// suite for this module's own pipeline. There is no external fixture
// corpus here, so every scenario builds its sample EPUB in memory.
package godog_test

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/cucumber/godog"

	"github.com/leafreader/core/pkg/css"
	"github.com/leafreader/core/pkg/epub"
	"github.com/leafreader/core/pkg/layout"
	"github.com/leafreader/core/pkg/paginate"
	"github.com/leafreader/core/pkg/render"
	"github.com/leafreader/core/pkg/report"
	"github.com/leafreader/core/pkg/swr"
)

func TestFeatures(t *testing.T) {
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join(dir, "testdata", "features")},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("one or more pipeline scenarios failed")
	}
}

// pipelineState holds per-scenario state for step definitions.
type pipelineState struct {
	raw []byte

	book *epub.Epub
	rep  *report.Report

	chapterIdx int
	chapter    *epub.Chapter

	pager     *paginate.Paginator
	page      paginate.Page
	renderer  *render.Renderer
	buffers   *render.DisplayBuffers
}

func initializeScenario(ctx *godog.ScenarioContext) {
	s := &pipelineState{}

	ctx.Step(`^a sample EPUB with (\d+) chapters?$`, s.givenSampleEPUB)
	ctx.Step(`^I open the EPUB$`, s.whenOpen)
	ctx.Step(`^I extract chapter (\d+)$`, s.whenExtractChapter)
	ctx.Step(`^I paginate forward (\d+) pages? with page height (\d+) and line advance (\d+)$`, s.whenPaginate)
	ctx.Step(`^I render the page twice$`, s.whenRenderTwice)

	ctx.Step(`^the title is "([^"]*)"$`, s.thenTitleIs)
	ctx.Step(`^the chapter count is (\d+)$`, s.thenChapterCountIs)
	ctx.Step(`^the table of contents has (\d+) entries$`, s.thenTocHasEntries)
	ctx.Step(`^the chapter has (\d+) paragraphs?$`, s.thenChapterHasParagraphs)
	ctx.Step(`^paragraph (\d+) is center aligned$`, s.thenParagraphCentered)
	ctx.Step(`^the page has at least (\d+) lines?$`, s.thenPageHasAtLeastLines)
	ctx.Step(`^the cursor chapter is (\d+)$`, s.thenCursorChapterIs)
	ctx.Step(`^the renderer reports not dirty$`, s.thenRendererNotDirty)
}

func (s *pipelineState) givenSampleEPUB(numChapters int) error {
	data, err := buildSampleEPUB(numChapters)
	if err != nil {
		return err
	}
	s.raw = data
	return nil
}

func (s *pipelineState) whenOpen() error {
	s.rep = report.New()
	book, err := epub.Open(swr.NewBytesSource(s.raw), s.rep)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	s.book = book
	return nil
}

func (s *pipelineState) whenExtractChapter(idx int) error {
	ch, err := s.book.Chapter(idx)
	if err != nil {
		return fmt.Errorf("chapter %d: %w", idx, err)
	}
	s.chapterIdx = idx
	s.chapter = ch
	return nil
}

func (s *pipelineState) whenPaginate(count, pageHeight, lineAdvance int) error {
	fonts := buildBlockFontSet(lineAdvance)
	opts := paginate.Options{
		Layout:       layout.Options{Width: 200, Language: s.book.Metadata.Language, Font: fonts},
		DefaultAlign: css.AlignStart,
		PageHeight:   pageHeight,
		LineAdvance:  lineAdvance,
	}
	s.pager = paginate.New(s.book, opts, 0)

	var err error
	for i := 0; i < count; i++ {
		if s.page, err = s.pager.NextPage(); err != nil {
			return fmt.Errorf("paginate: %w", err)
		}
	}

	s.buffers = render.NewDisplayBuffers(200, pageHeight, render.Rotate0)
	s.renderer = render.New(s.buffers, fonts, s.rep)
	return nil
}

func (s *pipelineState) whenRenderTwice() error {
	if s.renderer == nil {
		return fmt.Errorf("no renderer: call the paginate step first")
	}
	s.renderer.RenderPage(s.page)
	s.buffers.Swap()
	s.renderer.RenderPage(s.page)
	return nil
}

func (s *pipelineState) thenTitleIs(want string) error {
	if s.book.Metadata.Title != want {
		return fmt.Errorf("title: got %q, want %q", s.book.Metadata.Title, want)
	}
	return nil
}

func (s *pipelineState) thenChapterCountIs(want int) error {
	if got := s.book.ChapterCount(); got != want {
		return fmt.Errorf("chapter count: got %d, want %d", got, want)
	}
	return nil
}

func (s *pipelineState) thenTocHasEntries(want int) error {
	if got := len(s.book.Flatten()); got != want {
		return fmt.Errorf("toc entries: got %d, want %d", got, want)
	}
	return nil
}

func (s *pipelineState) thenChapterHasParagraphs(want int) error {
	if got := len(s.chapter.Paragraphs); got != want {
		return fmt.Errorf("paragraphs: got %d, want %d", got, want)
	}
	return nil
}

func (s *pipelineState) thenParagraphCentered(idx int) error {
	if idx >= len(s.chapter.Paragraphs) {
		return fmt.Errorf("paragraph %d out of range (have %d)", idx, len(s.chapter.Paragraphs))
	}
	if got := s.chapter.Paragraphs[idx].Alignment; got != css.AlignCenter {
		return fmt.Errorf("paragraph %d alignment: got %v, want AlignCenter", idx, got)
	}
	return nil
}

func (s *pipelineState) thenPageHasAtLeastLines(min int) error {
	if got := len(s.page.Lines); got < min {
		return fmt.Errorf("page lines: got %d, want at least %d", got, min)
	}
	return nil
}

func (s *pipelineState) thenCursorChapterIs(want int) error {
	if got := s.pager.ChapterIndex(); got != want {
		return fmt.Errorf("cursor chapter: got %d, want %d", got, want)
	}
	return nil
}

func (s *pipelineState) thenRendererNotDirty() error {
	if s.renderer.Dirty() {
		return fmt.Errorf("renderer reports dirty after rendering the same page twice")
	}
	return nil
}

// buildBlockFontSet is a minimal synthetic font for pagination/rendering
// scenarios: a fixed-size filled block per printable ASCII codepoint,
// shared across all four styles. Mirrors cmd/leafctl's debug font.
func buildBlockFontSet(advanceY int) render.FontSet {
	const w, h = 6, 10
	const first, last = 0x20, 0x7e
	n := last - first + 1
	cellBits := w * h

	bits := bitset.New(uint(n * cellBits))
	glyphs := make([]render.Glyph, 0, n)
	for i := 0; i < n; i++ {
		cp := rune(first + i)
		offset := i * cellBits
		if cp != ' ' {
			for r := 1; r < h-1; r++ {
				for c := 1; c < w-1; c++ {
					bits.Set(uint(offset + r*w + c))
				}
			}
		}
		glyphs = append(glyphs, render.Glyph{
			Codepoint: cp, BitmapOffset: offset,
			AdvanceX: w, Width: w, Height: h,
		})
	}
	def, err := render.NewFontDefinition(advanceY, glyphs, bits, bits, bits)
	if err != nil {
		panic(err)
	}
	return render.FontSet{Regular: def, Bold: def, Italic: def, BoldItalic: def}
}

// buildSampleEPUB constructs a minimal, valid EPUB in memory with the
// given number of chapters, the first of which links an external
// stylesheet that center-aligns its one paragraph.
func buildSampleEPUB(numChapters int) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	mw, _ := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	mw.Write([]byte("application/epub+zip"))

	cw, _ := w.Create("META-INF/container.xml")
	cw.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`))

	var manifest, spine, navPoints bytes.Buffer
	for i := 0; i < numChapters; i++ {
		fmt.Fprintf(&manifest, `    <item id="ch%d" href="chapter%d.xhtml" media-type="application/xhtml+xml"/>`+"\n", i, i)
		fmt.Fprintf(&spine, `    <itemref idref="ch%d"/>`+"\n", i)
		fmt.Fprintf(&navPoints, `  <navPoint id="np%d" playOrder="%d"><navLabel><text>Chapter %d</text></navLabel><content src="chapter%d.xhtml"/></navPoint>`+"\n", i, i+1, i, i)

		body := fmt.Sprintf(`<p class="lead">Chapter %d body text that is long enough to wrap across more than one line when laid out at a narrow page width.</p>`, i)
		link := ""
		if i == 0 {
			link = `<link rel="stylesheet" href="style.css"/>`
		}
		chw, _ := w.Create(fmt.Sprintf("OEBPS/chapter%d.xhtml", i))
		fmt.Fprintf(chw, `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>Chapter %d</title>%s</head><body>%s</body></html>`, i, link, body)
	}

	sw, _ := w.Create("OEBPS/style.css")
	sw.Write([]byte(".lead { text-align: center; }"))

	opfw, _ := w.Create("OEBPS/content.opf")
	fmt.Fprintf(opfw, `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="pub-id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Sample Book</dc:title>
    <dc:creator>Jane Author</dc:creator>
    <dc:language>en</dc:language>
    <dc:identifier id="pub-id">urn:uuid:sample</dc:identifier>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
%s  </manifest>
  <spine toc="ncx">
%s  </spine>
</package>`, manifest.String(), spine.String())

	ncxw, _ := w.Create("OEBPS/toc.ncx")
	fmt.Fprintf(ncxw, `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
<head><meta name="dtb:uid" content="urn:uuid:sample"/></head>
<docTitle><text>Sample Book</text></docTitle>
<navMap>
%s</navMap>
</ncx>`, navPoints.String())

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
