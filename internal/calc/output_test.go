package calc

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestNewOutput(t *testing.T) {
	for _, colorize := range []bool{true, false} {
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		output := NewOutput(stdout, stderr, colorize, false)
		colorFuncs := []struct {
			name string
			fn   func(string) string
		}{
			{"cyan", output.cyan},
			{"green", output.green},
			{"yellow", output.yellow},
			{"red", output.red},
			{"gray", output.gray},
		}
		for _, cf := range colorFuncs {
			s := cf.fn("test")
			if colorize && s == "test" {
				t.Errorf("NewOutput() expected %s color func to return ANSI codes", cf.name)
			}
			if !colorize && s != "test" {
				t.Errorf("NewOutput() expected %s color func to return plain string, got %q", cf.name, s)
			}
		}
	}
}

func TestResults(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	output := NewOutput(stdout, stderr, false, false)

	output.Instant("2000-01-01T00:00:00Z")
	output.Duration("1d2h")

	if want := "2000-01-01T00:00:00Z\n1d2h\n"; stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
	if stderr.Len() != 0 {
		t.Errorf("results wrote to stderr: %q", stderr.String())
	}
}

func TestSyntaxError(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		input   string
		offset  int
		want    string
		wantPos int
	}{
		{
			name:    "caret in the middle",
			input:   "1s + x",
			offset:  5,
			want:    "Error: not all input matched",
			wantPos: 5,
		},
		{
			name:    "caret at start",
			input:   "xyz",
			offset:  0,
			want:    "Error: none of the parsers matched",
			wantPos: 0,
		},
		{
			name:    "offset past end is clamped",
			input:   "1s",
			offset:  10,
			want:    "Error: not all input matched",
			wantPos: 2,
		},
		{
			name:    "multibyte characters before the error",
			input:   "ümlaut + x",
			offset:  len("ümlaut + "),
			want:    "Error: not all input matched",
			wantPos: 9,
		},
		{
			name:    "with source",
			source:  "exprs.txt:3",
			input:   "1s +",
			offset:  3,
			want:    "Error: exprs.txt:3: not all input matched",
			wantPos: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}
			output := NewOutput(stdout, stderr, false, false)

			message := strings.TrimPrefix(tt.want, "Error: ")
			if tt.source != "" {
				message = strings.TrimPrefix(message, tt.source+": ")
			}
			output.SyntaxError(tt.source, tt.input, tt.offset, message)

			lines := strings.Split(strings.TrimSuffix(stderr.String(), "\n"), "\n")
			if len(lines) != 3 {
				t.Fatalf("SyntaxError() wrote %d lines, want 3: %q", len(lines), stderr.String())
			}
			if lines[0] != tt.want {
				t.Errorf("SyntaxError() first line = %q, want %q", lines[0], tt.want)
			}
			if lines[1] != "  "+tt.input {
				t.Errorf("SyntaxError() second line = %q, want %q", lines[1], "  "+tt.input)
			}
			if got := strings.Index(lines[2], "^") - 2; got != tt.wantPos {
				t.Errorf("SyntaxError() caret at %d, want %d", got, tt.wantPos)
			}
			if stdout.Len() != 0 {
				t.Errorf("SyntaxError() wrote to stdout: %q", stdout.String())
			}
		})
	}
}

func TestWarningf(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	output := NewOutput(stdout, stderr, false, false)

	output.Warningf("%s: no expressions", "empty.txt")

	if want := "Warning: empty.txt: no expressions\n"; stderr.String() != want {
		t.Errorf("Warningf() output = %q, want %q", stderr.String(), want)
	}
	if stdout.Len() != 0 {
		t.Errorf("Warningf() wrote to stdout: %q", stdout.String())
	}
}

func TestDebugf(t *testing.T) {
	for _, debug := range []bool{true, false} {
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		output := NewOutput(stdout, stderr, false, debug)

		output.Debugf("node %s", "Sequence[Now]")

		got := stderr.String()
		if debug && got != "node Sequence[Now]\n" {
			t.Errorf("Debugf() with debug output = %q", got)
		}
		if !debug && got != "" {
			t.Errorf("Debugf() without debug wrote %q", got)
		}
	}
}

func TestOutputThreadSafety(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	output := NewOutput(stdout, stderr, false, false)

	const numGoroutines = 10
	const numCalls = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 3)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numCalls; j++ {
				output.Instant("2000-01-01T00:00:00Z")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < numCalls; j++ {
				output.Duration("1s")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < numCalls; j++ {
				output.Errorf("", "error")
			}
		}()
	}

	wg.Wait()

	stdoutLines := strings.Count(stdout.String(), "\n")
	stderrLines := strings.Count(stderr.String(), "\n")

	if want := numGoroutines * numCalls * 2; stdoutLines != want {
		t.Errorf("stdout lines = %d, want %d (Instant + Duration)", stdoutLines, want)
	}
	if want := numGoroutines * numCalls; stderrLines != want {
		t.Errorf("stderr lines = %d, want %d", stderrLines, want)
	}
}
