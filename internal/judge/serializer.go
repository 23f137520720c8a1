package judge

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Sink emits one structured record per submission, serializing writes so
// concurrent workers never interleave records on the shared stream.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSink wraps w as an emission sink.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Emit renders jobID and result as a single NDJSON-shaped record (see
// spec.md §4.5 for field order) and writes it atomically under the
// sink's mutex, terminated by a newline.
func (s *Sink) Emit(jobID int, result ExecResult) error {
	record := Serialize(jobID, result)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, record)
	return err
}

// Serialize renders a verdict record with fields in the order job_id,
// status, output, compile_log, time_ms, max_rss_kb, exit_code, signal,
// timed_out, banned. String fields are escaped by hand (not via
// encoding/json) because output/compile_log capture arbitrary program
// bytes: encoding/json.Marshal silently replaces invalid UTF-8 with
// U+FFFD, which would corrupt a captured binary's raw stdout/stderr.
// Every byte other than backslash, double-quote, newline, CR, and tab is
// emitted verbatim, matching spec.md §4.5 exactly.
func Serialize(jobID int, r ExecResult) string {
	var b strings.Builder
	b.WriteByte('{')
	b.WriteString(`"job_id":`)
	fmt.Fprintf(&b, "%d", jobID)
	b.WriteString(`,"status":"`)
	b.WriteString(string(r.Status))
	b.WriteString(`","output":"`)
	escapeInto(&b, r.Output)
	b.WriteString(`","compile_log":"`)
	escapeInto(&b, r.CompileLog)
	b.WriteString(`","time_ms":`)
	fmt.Fprintf(&b, "%d", r.TimeMS)
	b.WriteString(`,"max_rss_kb":`)
	fmt.Fprintf(&b, "%d", r.MaxRSSKB)
	b.WriteString(`,"exit_code":`)
	fmt.Fprintf(&b, "%d", r.ExitCode)
	b.WriteString(`,"signal":`)
	fmt.Fprintf(&b, "%d", r.TermSignal)
	b.WriteString(`,"timed_out":`)
	b.WriteString(boolLit(r.TimedOut))
	b.WriteString(`,"banned":`)
	b.WriteString(boolLit(r.Banned))
	b.WriteString("}\n")
	return b.String()
}

func boolLit(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// escapeInto writes s into b, escaping backslash, double-quote, newline,
// carriage return, and tab; every other byte (including invalid UTF-8)
// passes through unchanged.
func escapeInto(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
}
