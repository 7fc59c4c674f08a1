// Package diagnostics renders the generator's compile-time error taxonomy
// to an output stream, colorizing when attached to a terminal.
// Grounded on cmd/funxy/main.go's fmt.Fprintf(os.Stderr, "Error: ...")
// call sites and internal/evaluator/builtins_term.go's use of
// github.com/mattn/go-isatty for terminal detection — isatty decided
// whether that output buffered for flicker-free rendering, here it decides
// whether error text gets ANSI color.
package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// Reporter renders diagnostics to an underlying writer, tracking the
// error count the CLI needs for its exit code.
type Reporter struct {
	out      io.Writer
	color    bool
	errors   int
	warnings int
}

// New builds a Reporter over w, auto-detecting color support when w is an
// *os.File attached to a terminal.
func New(w io.Writer) *Reporter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{out: w, color: color}
}

func (r *Reporter) paint(color, text string) string {
	if !r.color {
		return text
	}
	return color + text + colorReset
}

// Unsupported renders an UnsupportedConstruct error — fatal;
// the caller is expected to abort generation after this returns.
func (r *Reporter) Unsupported(format string, args ...any) {
	r.errors++
	fmt.Fprintf(r.out, "%s\n", r.paint(colorRed, "Error: "+fmt.Sprintf(format, args...)))
}

// Internal renders an InternalAssertion error — fatal.
func (r *Reporter) Internal(format string, args ...any) {
	r.errors++
	fmt.Fprintf(r.out, "%s\n", r.paint(colorRed, "Error: internal: "+fmt.Sprintf(format, args...)))
}

// UnresolvedMarker logs the recoverable UnresolvedType/UnresolvedMethod
// case: the generator keeps going and has already embedded a
// visible marker in the emitted C; this just tells the operator it
// happened.
func (r *Reporter) UnresolvedMarker(what string) {
	r.warnings++
	fmt.Fprintf(r.out, "%s\n", r.paint(colorYellow, "warning: unresolved type: "+what))
}

// ErrorCount is the number of fatal diagnostics reported so far — a
// non-zero count means the CLI must exit non-zero.
func (r *Reporter) ErrorCount() int { return r.errors }

// WarningCount is the number of recoverable markers reported so far.
func (r *Reporter) WarningCount() int { return r.warnings }
