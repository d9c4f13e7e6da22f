package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata" // IANA zones for --tz on systems without a zoneinfo database

	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/jparise/timecalc/internal/calc"
	"github.com/jparise/timecalc/internal/eval"
	"github.com/spf13/cobra"
)

// colorMode represents when to use colored output.
type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

// String is used both by fmt.Print and by Cobra in help text.
func (c *colorMode) String() string {
	return string(*c)
}

// Set must have pointer receiver to validate and set the value.
func (c *colorMode) Set(v string) error {
	switch v {
	case "auto", "always", "never":
		*c = colorMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"auto\", \"always\", or \"never\"")
	}
}

// Type is only used in help text.
func (c *colorMode) Type() string {
	return "colorMode"
}

// formatMode selects how results are printed.
type formatMode calc.OutputFormat

func (f *formatMode) String() string {
	return string(*f)
}

func (f *formatMode) Set(v string) error {
	switch calc.OutputFormat(v) {
	case calc.FormatISO, calc.FormatEpoch:
		*f = formatMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"iso\" or \"epoch\"")
	}
}

func (f *formatMode) Type() string {
	return "formatMode"
}

var (
	version = "dev"

	// Flags.
	color    = colorAuto
	format   = formatMode(calc.FormatISO)
	timezone string
	nowExpr  string
	files    []string
	jobs     int
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "timecalc [<expression>...]",
	Short: "Evaluate time expressions",
	Long: `timecalc evaluates arithmetic over instants and durations.

An <expression> is a sequence of terms joined by " + " or " - " (the
operator must be surrounded by spaces):
  now                        The current moment (see --now)
  2000-01-01T00:00:00Z       An RFC 3339 instant with an explicit offset
  1700000000.5               Seconds since the Unix epoch
  1d2h30m, 500ms, 10us, 3ns  A duration in short form
  full_day(<expression>)     Truncate an instant to the start of its day
  full_hour(<expression>)    Truncate an instant to the start of its hour
  (<expression>)             Brackets evaluate on their own

instant - instant gives a duration, instant +/- duration gives an instant,
and duration +/- duration gives a duration.

Expressions are read from the arguments, then from every file matched by
--file (one per line, "#" starts a comment line). With neither, each line
of stdin is evaluated as it arrives.

Examples:
  timecalc "now - 1d"
  timecalc "full_day(now) + 9h" "full_hour(now) - 30m"
  timecalc --format epoch "2024-03-01T00:00:00Z - 1h"
  timecalc --tz UTC --now 2000-01-01T00:00:00Z "now + 1d"
  timecalc -f "queries/**/*.txt"
  echo "now - 2001-09-09T01:46:40Z" | timecalc`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if jobs < 1 || jobs > 100 {
			return fmt.Errorf("--jobs must be between 1 and 100, got %d", jobs)
		}

		if _, err := resolveLocation(timezone); err != nil {
			return fmt.Errorf("invalid --tz %q: %w", timezone, err)
		}

		return nil
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().Var(&color, "color",
		"colorize output: auto, always, never")
	rootCmd.Flags().Var(&format, "format",
		"output format: iso, epoch")
	rootCmd.Flags().StringVar(&timezone, "tz", "local",
		"time zone for \"now\" and printed instants: local, UTC, or an IANA name")
	rootCmd.Flags().StringVar(&nowExpr, "now", "",
		"expression to use as the current moment (must be an instant)")
	rootCmd.Flags().StringArrayVarP(&files, "file", "f", []string{},
		"read expressions from files matching a glob (can be specified multiple times)")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 10,
		"maximum concurrent evaluations")
	rootCmd.Flags().BoolVar(&debug, "debug", false,
		"print the parse tree of each expression")
}

func Execute() error {
	return rootCmd.Execute()
}

// resolveLocation maps a --tz value to a location. "local" and the empty
// string select the system zone; anything else goes to time.LoadLocation.
func resolveLocation(name string) (*time.Location, error) {
	switch strings.ToLower(name) {
	case "", "local":
		return time.Local, nil
	case "utc":
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// resolveNow returns clock unless expr is set, in which case expr is
// evaluated against clock and must produce an instant.
func resolveNow(c *calc.Calculator, expr string, clock time.Time) (time.Time, error) {
	if expr == "" {
		return clock, nil
	}

	value, err := c.Evaluate(expr, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", expr, err)
	}
	if value.Kind != eval.KindInstant {
		return time.Time{}, fmt.Errorf("invalid --now %q: got %v, want an instant", expr, value)
	}
	return value.Instant.In(clock.Location()), nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var colorize bool
	switch color {
	case colorAlways:
		colorize = true
	case colorNever:
		colorize = false
	case colorAuto:
		terminal := term.FromEnv()
		colorize = terminal.IsColorEnabled()
	}

	loc, err := resolveLocation(timezone)
	if err != nil {
		return err
	}

	c := calc.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorize, debug)

	now, err := resolveNow(c, nowExpr, time.Now().In(loc))
	if err != nil {
		return err
	}

	opts := &calc.Options{
		Expressions: args,
		Files:       files,
		Now:         now,
		Location:    loc,
		Format:      calc.OutputFormat(format),
		Jobs:        jobs,
	}

	return c.Run(ctx, opts, cmd.InOrStdin())
}
