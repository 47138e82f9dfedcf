package epub

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/leafreader/core/pkg/css"
	"github.com/leafreader/core/pkg/report"
	"github.com/leafreader/core/pkg/swr"
	"github.com/stretchr/testify/require"
)

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="EPUB/package.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const packageOPF = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Sample Book</dc:title>
    <dc:creator>Jane Author</dc:creator>
    <dc:language>en</dc:language>
    <meta name="cover" content="cover-img"/>
  </metadata>
  <manifest>
    <item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="cover-img" href="cover.jpg" media-type="image/jpeg"/>
    <item id="style" href="style.css" media-type="text/css"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
  </spine>
</package>`

const tocNCX = `<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/">
  <navMap>
    <navPoint id="n1" playOrder="1">
      <navLabel><text>Chapter One</text></navLabel>
      <content src="chapter1.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`

const chapter1XHTML = `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><link rel="stylesheet" href="style.css"/></head>
<body>
<p class="lead">Hello <b>bold</b> world.</p>
</body>
</html>`

const styleCSS = `.lead { text-align: center; }`

func buildEpub(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"META-INF/container.xml": containerXML,
		"EPUB/package.opf":       packageOPF,
		"EPUB/toc.ncx":           tocNCX,
		"EPUB/chapter1.xhtml":    chapter1XHTML,
		"EPUB/style.css":         styleCSS,
		"EPUB/cover.jpg":         "not-a-real-jpeg",
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenParsesContainerOPFAndNCX(t *testing.T) {
	data := buildEpub(t)
	rep := report.New()
	ep, err := Open(swr.NewBytesSource(data), rep)
	require.NoError(t, err)

	require.Equal(t, "Sample Book", ep.Metadata.Title)
	require.Equal(t, "Jane Author", ep.Metadata.Author)
	require.Len(t, ep.Manifest, 4)
	require.Len(t, ep.Spine, 1)
	require.Len(t, ep.Toc, 1)
	require.Equal(t, "Chapter One", ep.Toc[0].Label)

	entryIdx, ok := ep.CoverEntry()
	require.True(t, ok)
	require.Equal(t, "EPUB/cover.jpg", ep.Resolver.Entries[entryIdx].Name)
}

func TestChapterAppliesExternalStylesheet(t *testing.T) {
	data := buildEpub(t)
	rep := report.New()
	ep, err := Open(swr.NewBytesSource(data), rep)
	require.NoError(t, err)

	ch, err := ep.Chapter(0)
	require.NoError(t, err)
	require.Len(t, ch.Paragraphs, 1)

	para := ch.Paragraphs[0]
	require.Equal(t, 3, len(para.Runs))
	require.Equal(t, "Hello ", para.Runs[0].Text)
	require.Equal(t, "bold", para.Runs[1].Text)
	require.Equal(t, " world.", para.Runs[2].Text)
	require.Equal(t, css.AlignCenter, para.Alignment)
}

func TestChapterOutOfRange(t *testing.T) {
	data := buildEpub(t)
	ep, err := Open(swr.NewBytesSource(data), report.New())
	require.NoError(t, err)

	_, err = ep.Chapter(5)
	require.ErrorIs(t, err, ErrSpineIndex)
}

func TestOpenMissingContainer(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("hello.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Open(swr.NewBytesSource(buf.Bytes()), report.New())
	require.ErrorIs(t, err, ErrContainerMissing)
}
