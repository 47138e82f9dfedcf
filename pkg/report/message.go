// Package report is the one structured-logging sink for the module. Every
// layer that is allowed to "log and skip" instead of failing outright
// (unknown CSS declarations, missing manifest idrefs, missing TOC
// entries, missing glyphs — see the error-handling policy in
// SPEC_FULL.md) appends a Message here instead of writing to stderr
// directly, so a caller can inspect, filter, or silently discard the log
// after a chapter or page is produced. Unknown HTML tags are skipped by
// pkg/body without a Message.
package report

import "fmt"

// Severity levels for logged findings.
type Severity string

const (
	Error   Severity = "ERROR"
	Warning Severity = "WARNING"
	Info    Severity = "INFO"
)

// Message is a single logged finding, tagged with a short machine-readable
// code (e.g. "CSS-UNKNOWN-PROP", "SPINE-UNRESOLVED", "GLYPH-MISSING") so
// callers can filter by kind without string-matching the prose.
type Message struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
}

func (m Message) String() string {
	if m.Location != "" {
		return fmt.Sprintf("%s(%s): %s [%s]", m.Severity, m.Code, m.Message, m.Location)
	}
	return fmt.Sprintf("%s(%s): %s", m.Severity, m.Code, m.Message)
}

// Report accumulates Messages across one open/parse/layout/render run.
type Report struct {
	Messages []Message `json:"messages"`
}

// New creates an empty report.
func New() *Report {
	return &Report{}
}

// Add appends a message with no location.
func (r *Report) Add(sev Severity, code, msg string) {
	r.Messages = append(r.Messages, Message{Severity: sev, Code: code, Message: msg})
}

// AddWithLocation appends a message tagged with a location (a file path, an
// element name, a codepoint — whatever identifies where the finding came
// from).
func (r *Report) AddWithLocation(sev Severity, code, msg, location string) {
	r.Messages = append(r.Messages, Message{Severity: sev, Code: code, Message: msg, Location: location})
}

// ErrorCount returns the number of ERROR messages.
func (r *Report) ErrorCount() int { return r.count(Error) }

// WarningCount returns the number of WARNING messages.
func (r *Report) WarningCount() int { return r.count(Warning) }

// InfoCount returns the number of INFO messages.
func (r *Report) InfoCount() int { return r.count(Info) }

func (r *Report) count(sev Severity) int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// Clean reports whether no ERROR-severity findings were logged.
func (r *Report) Clean() bool { return r.ErrorCount() == 0 }
