// Command leafctl is the development CLI for the e-ink reader core: it
// opens an EPUB, prints its OPF/NCX structure, and paginates and renders
// a chapter to a TBMP preview image. It replaces the donor's bare
// main.go with subcommands that exercise Open, Chapter, the paginator,
// and the renderer end to end, the way a firmware developer would while
// bringing up a new book on the bench.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/leafreader/core/pkg/css"
	"github.com/leafreader/core/pkg/epub"
	"github.com/leafreader/core/pkg/layout"
	"github.com/leafreader/core/pkg/paginate"
	"github.com/leafreader/core/pkg/render"
	"github.com/leafreader/core/pkg/report"
	"github.com/leafreader/core/pkg/swr"
	"github.com/leafreader/core/pkg/tbmp"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "page":
		err = runPage(os.Args[2:])
	case "version":
		fmt.Println("leafctl (leafreader/core)")
		return
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "leafctl:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: leafctl <info|page|version> [flags] book.epub")
}

func openBook(path string) (*epub.Epub, *report.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	rep := report.New()
	book, err := epub.Open(swr.NewFileSource(f), rep)
	if err != nil {
		f.Close()
		return nil, rep, err
	}
	return book, rep, nil
}

type bookInfo struct {
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Language string          `json:"language"`
	Chapters int             `json:"chapters"`
	Toc      []epub.TocEntry `json:"toc"`
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "print as JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("info: missing EPUB path")
	}

	book, rep, err := openBook(fs.Arg(0))
	if err != nil {
		return err
	}
	defer rep.WriteText(os.Stderr)

	info := bookInfo{
		Title:    book.Metadata.Title,
		Author:   book.Metadata.Author,
		Language: book.Metadata.Language,
		Chapters: book.ChapterCount(),
		Toc:      book.Flatten(),
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("%s by %s [%s]\n", info.Title, info.Author, info.Language)
	fmt.Printf("%d chapter(s)\n", info.Chapters)
	for _, t := range info.Toc {
		fmt.Printf("%*s- %s\n", t.Depth*2, "", t.Label)
	}
	return nil
}

func runPage(args []string) error {
	fs := flag.NewFlagSet("page", flag.ExitOnError)
	chapter := fs.IntP("chapter", "c", 0, "starting chapter index")
	count := fs.IntP("count", "n", 1, "pages to paginate forward before rendering the last one")
	width := fs.Int("width", 480, "page width in pixels (multiple of 8)")
	height := fs.Int("height", 640, "page height in pixels (multiple of 8)")
	lineAdvance := fs.Int("line-advance", 18, "line height in pixels")
	out := fs.StringP("out", "o", "page.tbmp", "output TBMP path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("page: missing EPUB path")
	}
	if *count < 1 {
		return fmt.Errorf("page: --count must be >= 1")
	}

	book, rep, err := openBook(fs.Arg(0))
	if err != nil {
		return err
	}
	defer rep.WriteText(os.Stderr)

	fonts := newDebugFontSet(*lineAdvance)
	opts := paginate.Options{
		Layout:       layout.Options{Width: *width, Language: book.Metadata.Language, Font: fonts},
		DefaultAlign: css.AlignStart,
		PageHeight:   *height,
		LineAdvance:  *lineAdvance,
	}

	pager := paginate.New(book, opts, *chapter)
	var page paginate.Page
	for i := 0; i < *count; i++ {
		if page, err = pager.NextPage(); err != nil {
			return fmt.Errorf("paginate: %w", err)
		}
	}

	buffers := render.NewDisplayBuffers(*width, *height, render.Rotate0)
	renderer := render.New(buffers, fonts, rep)
	renderer.RenderPage(page)

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	img := &tbmp.Image{
		Width: *width, Height: *height,
		BW:  buffers.Active(),
		MSB: buffers.MSB(),
		LSB: buffers.LSB(),
	}
	if err := tbmp.Encode(f, img); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s (dirty=%v)\n", *out, renderer.Dirty())
	return nil
}
