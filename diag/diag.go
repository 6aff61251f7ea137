// Package diag formats and emits positioned warnings and errors.
//
// The on-stream format is line oriented. For a list of k positions the first
// k-1 are printed alone, each followed by a colon, and the last one carries
// the message:
//
//	foo.h:10:
//	foo.h:20: error: Foo: Namespace conflict for 'bar'
//
// Errors are returned as *FatalError values; it is up to the caller to stop.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/susji/girscan/span"
)

type Severity int

const (
	SEVERITY_WARNING Severity = iota
	SEVERITY_ERROR
	SEVERITY_NOTE
)

var severitynames = [...]string{
	"warning",
	"error",
	"note",
}

func (s Severity) String() string {
	return severitynames[s]
}

// FatalError is a diagnostic which should terminate the run.
type FatalError struct {
	Namespace string
	Positions span.Positions
	Prefix    string
	Text      string
}

func (e *FatalError) Error() string {
	if e.Prefix != "" {
		return fmt.Sprintf("%s: %s: %s", e.Namespace, e.Prefix, e.Text)
	}
	return fmt.Sprintf("%s: %s", e.Namespace, e.Text)
}

// Logger writes diagnostics for one namespace.
type Logger struct {
	w         io.Writer
	namespace string
	cwd       string

	// Verbose enables printing of warnings.
	Verbose bool
	// FatalWarnings turns every warning into an error.
	FatalWarnings bool

	warned bool
}

// New returns a Logger writing to w. File names starting with cwd are
// printed relative to it.
func New(w io.Writer, namespace, cwd string) *Logger {
	if cwd != "" && !strings.HasSuffix(cwd, "/") {
		cwd += "/"
	}
	return &Logger{w: w, namespace: namespace, cwd: cwd}
}

// Warned reports whether any warning was raised, printed or not.
func (l *Logger) Warned() bool {
	return l.warned
}

// Warn records a warning and prints it in verbose mode. The returned error is
// non-nil only when warnings are fatal.
func (l *Logger) Warn(text string, positions span.Positions, prefix string) error {
	if l.FatalWarnings {
		return l.Error(text, positions, prefix)
	}
	l.warned = true
	if l.Verbose {
		l.emit(SEVERITY_WARNING, text, positions, prefix)
	}
	return nil
}

// Warnf is Warn without positions or prefix.
func (l *Logger) Warnf(format string, va ...interface{}) error {
	return l.Warn(fmt.Sprintf(format, va...), nil, "")
}

// Note prints an informational message in verbose mode. Notes do not count
// as warnings.
func (l *Logger) Note(text string, positions span.Positions, prefix string) {
	if l.Verbose {
		l.emit(SEVERITY_NOTE, text, positions, prefix)
	}
}

// Error prints the diagnostic unconditionally and returns it as a
// *FatalError.
func (l *Logger) Error(text string, positions span.Positions, prefix string) error {
	l.warned = true
	l.emit(SEVERITY_ERROR, text, positions, prefix)
	return &FatalError{
		Namespace: l.namespace,
		Positions: positions,
		Prefix:    prefix,
		Text:      text,
	}
}

// Format renders a diagnostic without emitting it.
func (l *Logger) Format(sev Severity, text string, positions span.Positions, prefix string) string {
	var strs []string
	if len(positions) == 0 {
		strs = []string{span.Unknown + ":"}
	} else {
		for _, pos := range positions {
			if strings.HasPrefix(pos.File, l.cwd) {
				pos.File = pos.File[len(l.cwd):]
			}
			strs = append(strs, pos.String())
		}
	}
	b := &strings.Builder{}
	for _, s := range strs[:len(strs)-1] {
		b.WriteString(s + ":\n")
	}
	last := strs[len(strs)-1]
	if prefix != "" {
		b.WriteString(fmt.Sprintf("%s: %s: %s: %s: %s\n", last, sev, l.namespace, prefix, text))
	} else {
		b.WriteString(fmt.Sprintf("%s: %s: %s: %s\n", last, sev, l.namespace, text))
	}
	return b.String()
}

func (l *Logger) emit(sev Severity, text string, positions span.Positions, prefix string) {
	// XXX Ignoring write errors, there is nowhere else to report them.
	io.WriteString(l.w, l.Format(sev, text, positions, prefix))
}
