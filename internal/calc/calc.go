// Package calc evaluates batches of time expressions and prints the results.
package calc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jparise/timecalc/internal/eval"
	"github.com/jparise/timecalc/internal/parse"
	"github.com/jparise/timecalc/internal/timeparse"
	"golang.org/x/sync/semaphore"
)

// Expression is one line of input and where it came from.
type Expression struct {
	Source string // "file:line", or empty for arguments and stdin
	Text   string
}

// result is the outcome of evaluating one Expression.
type result struct {
	node  parse.Node
	value eval.Value
	err   error
}

// Calculator parses, evaluates, and prints expressions.
type Calculator struct {
	output    *Output
	parser    *parse.Parser
	evaluator *eval.Evaluator
}

// New creates a Calculator with the built-in functions.
func New(stdout, stderr io.Writer, colorize, debug bool) *Calculator {
	funcs := eval.Builtins()
	return &Calculator{
		output:    NewOutput(stdout, stderr, colorize, debug),
		parser:    parse.NewParser(funcs.Names()),
		evaluator: eval.New(funcs),
	}
}

// Evaluate parses and evaluates a single expression.
func (c *Calculator) Evaluate(text string, now time.Time) (eval.Value, error) {
	r := c.evaluate(text, now)
	return r.value, r.err
}

func (c *Calculator) evaluate(text string, now time.Time) result {
	node, err := c.parser.Parse(text)
	if err != nil {
		return result{err: err}
	}
	value, err := c.evaluator.Evaluate(node, now)
	return result{node: node, value: value, err: err}
}

// Run evaluates the expressions and files named in opts, or every line of
// stdin when there are none. Every expression is reported; the returned
// error only says whether any of them failed.
func (c *Calculator) Run(ctx context.Context, opts *Options, stdin io.Reader) error {
	exprs := make([]Expression, 0, len(opts.Expressions))
	for _, text := range opts.Expressions {
		exprs = append(exprs, Expression{Text: text})
	}

	paths, err := ExpandFiles(opts.Files)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fileExprs, err := readFile(path)
		if err != nil {
			return err
		}
		if len(fileExprs) == 0 {
			c.output.Warningf("%s: no expressions", path)
		}
		exprs = append(exprs, fileExprs...)
	}

	var failed, total int
	if len(opts.Expressions) == 0 && len(opts.Files) == 0 {
		failed, total, err = c.runStream(ctx, opts, stdin)
	} else {
		total = len(exprs)
		failed, err = c.runBatch(ctx, opts, exprs)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, total)
	}
	return nil
}

// runBatch evaluates exprs concurrently and prints the results in order.
func (c *Calculator) runBatch(ctx context.Context, opts *Options, exprs []Expression) (int, error) {
	results := make([]result, len(exprs))

	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(max(opts.Jobs, 1)))

	for i, expr := range exprs {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return 0, err
		}

		wg.Add(1)
		go func(i int, expr Expression) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = c.evaluate(expr.Text, opts.Now)
		}(i, expr)
	}

	wg.Wait()

	failed := 0
	for i, r := range results {
		if !c.report(opts, exprs[i], r) {
			failed++
		}
	}
	return failed, nil
}

// runStream evaluates stdin line by line, printing each result as soon as
// it is known.
func (c *Calculator) runStream(ctx context.Context, opts *Options, stdin io.Reader) (failed, total int, err error) {
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return failed, total, err
		}
		text := scanner.Text()
		if isBlank(text) {
			continue
		}
		total++
		expr := Expression{Text: text}
		if !c.report(opts, expr, c.evaluate(text, opts.Now)) {
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return failed, total, fmt.Errorf("failed to read stdin: %w", err)
	}
	return failed, total, nil
}

// report prints r and returns whether the evaluation succeeded.
func (c *Calculator) report(opts *Options, expr Expression, r result) bool {
	if r.node != nil {
		c.output.Debugf("%s", r.node)
	}

	if r.err != nil {
		var syntaxErr *parse.SyntaxError
		if errors.As(r.err, &syntaxErr) {
			c.output.SyntaxError(expr.Source, expr.Text, syntaxErr.Offset, syntaxErr.Message)
		} else {
			c.output.Errorf(expr.Source, "%v", r.err)
		}
		return false
	}

	switch r.value.Kind {
	case eval.KindInstant:
		c.output.Instant(FormatValue(r.value, opts.Format, opts.Location))
	case eval.KindDuration:
		c.output.Duration(FormatValue(r.value, opts.Format, opts.Location))
	}
	return true
}

// FormatValue renders v. Instants are converted to loc first, if set.
func FormatValue(v eval.Value, format OutputFormat, loc *time.Location) string {
	switch v.Kind {
	case eval.KindInstant:
		t := v.Instant
		if loc != nil {
			t = t.In(loc)
		}
		if format == FormatEpoch {
			return timeparse.FormatTimestamp(t)
		}
		return timeparse.FormatInstant(t)
	case eval.KindDuration:
		if format == FormatEpoch {
			return timeparse.FormatSeconds(v.Duration)
		}
		return timeparse.FormatDuration(v.Duration)
	default:
		return v.String()
	}
}

// ExpandFiles expands glob patterns (including "**") into file paths. Each
// pattern must match at least one file. Duplicates are removed while
// preserving order.
func ExpandFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, path := range matches {
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}
	return paths, nil
}

func readFile(path string) ([]Expression, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	exprs, err := ReadExpressions(f, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return exprs, nil
}

// ReadExpressions reads one expression per line from r. Blank lines and
// lines starting with "#" are skipped. name is used to label each
// expression with its line number.
func ReadExpressions(r io.Reader, name string) ([]Expression, error) {
	var exprs []Expression
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if isBlank(text) {
			continue
		}
		exprs = append(exprs, Expression{
			Source: fmt.Sprintf("%s:%d", name, line),
			Text:   text,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return exprs, nil
}

func isBlank(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
