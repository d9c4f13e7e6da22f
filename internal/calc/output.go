package calc

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mgutz/ansi"
)

// Output handles all output formatting with optional color support.
type Output struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
	debug  bool

	cyan   func(string) string
	green  func(string) string
	yellow func(string) string
	red    func(string) string
	gray   func(string) string
}

// NewOutput creates a new Output with optional color support.
func NewOutput(stdout, stderr io.Writer, colorize, debug bool) *Output {
	color := func(name string) func(string) string {
		if colorize {
			return ansi.ColorFunc(name)
		}
		return ansi.ColorFunc("")
	}

	return &Output{
		stdout: stdout,
		stderr: stderr,
		debug:  debug,
		cyan:   color("cyan"),
		green:  color("green+b"),
		yellow: color("yellow"),
		red:    color("red+b"),
		gray:   color("black+h"),
	}
}

// Instant writes an evaluated instant to stdout.
func (o *Output) Instant(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.stdout, o.green(s))
}

// Duration writes an evaluated duration to stdout.
func (o *Output) Duration(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.stdout, o.cyan(s))
}

// SyntaxError writes input with a caret under the character at byte
// offset.
func (o *Output) SyntaxError(source, input string, offset int, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	offset = min(max(offset, 0), len(input))
	column := utf8.RuneCountInString(input[:offset])
	fmt.Fprintf(o.stderr, "%s%s\n", o.red("Error: "), prefixed(source, message))
	fmt.Fprintf(o.stderr, "  %s\n", input)
	fmt.Fprintf(o.stderr, "  %s%s\n", strings.Repeat(" ", column), o.red("^"))
}

// Errorf writes a formatted error message to stderr.
func (o *Output) Errorf(source, format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, "%s%s\n", o.red("Error: "), prefixed(source, fmt.Sprintf(format, args...)))
}

// Warningf writes a formatted warning message to stderr.
func (o *Output) Warningf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, o.yellow("Warning: ")+format+"\n", args...)
}

// Debugf writes a formatted message to stderr when debugging is enabled.
func (o *Output) Debugf(format string, args ...any) {
	if !o.debug {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.stderr, o.gray(fmt.Sprintf(format, args...)))
}

func prefixed(source, message string) string {
	if source == "" {
		return message
	}
	return source + ": " + message
}
