// Command leafcompare diffs two page renders, pixel plane by pixel
// plane, accepting either TBMP (three-plane asset) or XTG/XTH
// (framebuffer snapshot) files in any combination. It replaces the
// donor's cmd/epubcompare, which diffed two validators' JSON reports,
// with the equivalent bench tool for this domain: diffing two renders
// of what should be the same page, e.g. before/after a layout change, or
// a live render against a recorded golden snapshot.
package main

import (
	"bytes"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/leafreader/core/pkg/render"
	"github.com/leafreader/core/pkg/tbmp"
	"github.com/leafreader/core/pkg/xtg"
)

func main() {
	fs := flag.NewFlagSet("leafcompare", flag.ExitOnError)
	verbose := fs.BoolP("verbose", "v", false, "list every differing pixel coordinate")
	fs.Parse(os.Args[1:])

	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: leafcompare [--verbose] a.tbmp|a.xtg b.tbmp|b.xtg")
		os.Exit(2)
	}

	planesA, err := loadPlanes(fs.Arg(0))
	if err != nil {
		fatalf("reading %s: %v", fs.Arg(0), err)
	}
	planesB, err := loadPlanes(fs.Arg(1))
	if err != nil {
		fatalf("reading %s: %v", fs.Arg(1), err)
	}

	identical := true
	for _, name := range []string{"BW", "MSB", "LSB"} {
		pa, pb := planesA[name], planesB[name]
		if pa == nil && pb == nil {
			continue
		}
		if pa == nil || pb == nil {
			fmt.Printf("%s: present in only one file\n", name)
			identical = false
			continue
		}
		n := diffPlane(pa, pb, *verbose)
		if n > 0 {
			identical = false
		}
		fmt.Printf("%s: %d differing pixel(s)\n", name, n)
	}

	if identical {
		fmt.Println("identical")
		return
	}
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func diffPlane(a, b *render.Plane, verbose bool) int {
	if a.Stride != b.Stride || a.Rows != b.Rows {
		fmt.Printf("  dimension mismatch: %dx%d vs %dx%d\n", a.Stride, a.Rows, b.Stride, b.Rows)
		return a.Stride * a.Rows
	}
	count := 0
	for y := 0; y < a.Rows; y++ {
		for x := 0; x < a.Stride; x++ {
			if a.Test(x, y) != b.Test(x, y) {
				count++
				if verbose {
					fmt.Printf("  (%d,%d)\n", x, y)
				}
			}
		}
	}
	return count
}

// loadPlanes sniffs the file's magic and decodes it as TBMP or XTG/XTH,
// returning its planes under the common names "BW", "MSB"/"Aux" shared
// between the two containers.
func loadPlanes(path string) (map[string]*render.Plane, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("file too short to contain a header")
	}

	switch {
	case bytes.Equal(data[:4], []byte("TBMP")):
		img, err := tbmp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return map[string]*render.Plane{"BW": img.BW, "MSB": img.MSB, "LSB": img.LSB}, nil

	case bytes.Equal(data[:3], []byte("XTG")), bytes.Equal(data[:3], []byte("XTH")):
		snap, err := xtg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		out := map[string]*render.Plane{"BW": snap.BW}
		if snap.Aux != nil {
			out["MSB"] = snap.Aux
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unrecognized file magic %q", data[:4])
	}
}
