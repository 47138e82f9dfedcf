package report

import (
	"fmt"
	"io"
)

// WriteText writes a human-readable listing to w, one message per line.
func (r *Report) WriteText(w io.Writer) {
	for _, m := range r.Messages {
		fmt.Fprintln(w, m.String())
	}
	if len(r.Messages) == 0 {
		fmt.Fprintln(w, "no findings")
		return
	}
	fmt.Fprintf(w, "errors: %d, warnings: %d, info: %d\n", r.ErrorCount(), r.WarningCount(), r.InfoCount())
}
