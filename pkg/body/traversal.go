package body

import (
	"strings"

	"github.com/leafreader/core/pkg/css"
	"github.com/leafreader/core/pkg/report"
	"github.com/leafreader/core/pkg/xmlstream"
)

// frame is pushed on every StartElement and popped on its matching
// EndElement; it remembers what bold/italic were before this element
// changed them (however it changed them: semantic tag or an explicit
// style override), so closing the element always restores the prior
// state regardless of how deeply the toggle was nested.
type frame struct {
	tag         string
	prevBold    bool
	prevItalic  bool
	prevAlign   css.Alignment
	prevIndent  int
	prevHasInd  bool
}

type builder struct {
	rep      *report.Report
	external *css.Cascade
	inline   *css.Cascade

	stack []frame
	bold  bool
	italic bool

	chapter Chapter
	paras   []Paragraph

	curPara Paragraph
	curRun  strings.Builder

	atStart     bool // true at the start of the current paragraph's text
	lastWasSpace bool
}

// Parse traverses an XHTML document's <head> (collecting any inline
// <style type="text/css">) and then its <body>, emitting a Chapter of
// styled-run Paragraphs. external is the stylesheet resolved from any
// manifest-linked CSS files the caller has already parsed; it is applied
// after the inline stylesheet and the inline style attribute, so
// document-local styling always wins over a linked sheet.
func Parse(r *xmlstream.Reader, external *css.Cascade, rep *report.Report) (*Chapter, error) {
	b := &builder{rep: rep, external: external}
	b.resetParagraph()

	inStyle := false
	var styleBuf strings.Builder
	inBody := false

	for {
		ev, err := r.NextEvent()
		if err != nil {
			return nil, err
		}
		if ev.Kind == xmlstream.KindEndOfFile {
			break
		}

		if !inBody {
			switch ev.Kind {
			case xmlstream.KindStartElement:
				name := strings.ToLower(string(ev.Name))
				if name == "style" {
					inStyle = true
				} else if name == "body" {
					inBody = true
					sheet := css.Parse(styleBuf.String(), "<inline-style>", rep)
					b.inline = css.NewCascade(sheet)
				}
			case xmlstream.KindText:
				if inStyle {
					styleBuf.Write(ev.Text)
				}
			case xmlstream.KindEndElement:
				if strings.ToLower(string(ev.Name)) == "style" {
					inStyle = false
				}
			}
			continue
		}

		if ev.Kind == xmlstream.KindEndElement && strings.ToLower(string(ev.Name)) == "body" && len(b.stack) == 0 {
			break
		}

		switch ev.Kind {
		case xmlstream.KindStartElement:
			b.startElement(string(ev.Name), ev.AttrBlock)
			if ev.SelfClosing {
				// The reader will synthesize the matching EndElement on
				// the next call; nothing further to do here.
			}
		case xmlstream.KindEndElement:
			b.endElement(string(ev.Name))
		case xmlstream.KindText:
			b.text(ev.Text)
		}
	}

	b.flushParagraph()
	b.chapter.Paragraphs = b.paras
	return &b.chapter, nil
}

func (b *builder) resetParagraph() {
	b.curPara = Paragraph{}
	b.atStart = true
	b.lastWasSpace = false
}

func (b *builder) currentStyle() FontStyle { return styleFor(b.bold, b.italic) }

// flushRun closes the current run buffer (if non-empty, or if the caller
// forces it for a breaking element) into curPara.Runs.
func (b *builder) flushRun(breaking bool) {
	text := b.curRun.String()
	if text == "" && !breaking {
		return
	}
	b.curPara.Runs = append(b.curPara.Runs, Run{Text: text, Style: b.currentStyle(), Breaking: breaking})
	b.curRun.Reset()
}

func (b *builder) flushParagraph() {
	b.flushRun(false)
	if len(b.curPara.Runs) == 0 {
		b.resetParagraph()
		return
	}
	last := &b.curPara.Runs[len(b.curPara.Runs)-1]
	last.Text = strings.TrimRight(last.Text, " \t\r\n")
	b.paras = append(b.paras, b.curPara)
	b.resetParagraph()
}

func (b *builder) setBold(v bool) {
	if v == b.bold {
		return
	}
	b.flushRun(false)
	b.bold = v
}

func (b *builder) setItalic(v bool) {
	if v == b.italic {
		return
	}
	b.flushRun(false)
	b.italic = v
}

func (b *builder) startElement(tag string, attrBlock []byte) {
	tag = strings.ToLower(tag)
	if isBlockFlushing(tag) {
		b.flushParagraph()
	}

	attrs := xmlstream.NewAttributes(attrBlock)
	var id string
	var classes []string
	var inlineStyleAttr string
	probe := attrs
	for {
		n, v, ok := probe.Next()
		if !ok {
			break
		}
		switch strings.ToLower(string(n)) {
		case "id":
			id = string(v)
		case "class":
			classes = strings.Fields(string(v))
		case "style":
			inlineStyleAttr = string(v)
		}
	}

	inlineRule := css.ParseDeclarationBlock(inlineStyleAttr, "<inline-attr>", b.rep)
	rule := inlineRule
	if b.inline != nil {
		rule = rule.Plus(b.inline.Get(tag, id, classes))
	}
	if b.external != nil {
		rule = rule.Plus(b.external.Get(tag, id, classes))
	}

	fr := frame{
		tag:        tag,
		prevBold:   b.bold,
		prevItalic: b.italic,
		prevAlign:  b.curPara.Alignment,
		prevIndent: b.curPara.IndentPx,
		prevHasInd: b.curPara.HasIndent,
	}

	if impliesBold(tag) {
		b.setBold(true)
	}
	if impliesItalic(tag) {
		b.setItalic(true)
	}
	if rule.Bold != nil {
		b.setBold(*rule.Bold)
	}
	if rule.Italic != nil {
		b.setItalic(*rule.Italic)
	}
	if rule.Alignment != nil {
		b.curPara.Alignment = *rule.Alignment
	}
	if rule.IndentPx != nil {
		b.curPara.IndentPx = *rule.IndentPx
		b.curPara.HasIndent = true
	}

	b.stack = append(b.stack, fr)

	if isLineBreaking(tag) {
		b.flushRun(true)
	}
}

func (b *builder) endElement(tag string) {
	tag = strings.ToLower(tag)
	if len(b.stack) == 0 {
		return
	}
	fr := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	b.setBold(fr.prevBold)
	b.setItalic(fr.prevItalic)

	if isBlockFlushing(tag) {
		b.flushParagraph()
	}

	b.curPara.Alignment = fr.prevAlign
	b.curPara.IndentPx = fr.prevIndent
	b.curPara.HasIndent = fr.prevHasInd
}

func (b *builder) text(raw []byte) {
	decoded := decodeEntities(raw)
	for _, r := range decoded {
		if isHTMLSpace(r) {
			if !b.atStart && !b.lastWasSpace {
				b.curRun.WriteByte(' ')
			}
			b.lastWasSpace = true
			continue
		}
		b.curRun.WriteRune(r)
		b.lastWasSpace = false
		b.atStart = false
	}
}

func isHTMLSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
