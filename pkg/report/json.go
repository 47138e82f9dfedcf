package report

import (
	"encoding/json"
	"io"
)

// JSONOutput is the JSON structure written by WriteJSON.
type JSONOutput struct {
	Clean        bool      `json:"clean"`
	Messages     []Message `json:"messages"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	InfoCount    int       `json:"info_count"`
}

// WriteJSON writes the report in JSON form to w.
func (r *Report) WriteJSON(w io.Writer) error {
	out := JSONOutput{
		Clean:        r.Clean(),
		Messages:     r.Messages,
		ErrorCount:   r.ErrorCount(),
		WarningCount: r.WarningCount(),
		InfoCount:    r.InfoCount(),
	}
	if out.Messages == nil {
		out.Messages = []Message{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
