package calc

import (
	"time"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// FormatISO renders instants as RFC 3339 and durations in short form.
	FormatISO OutputFormat = "iso"
	// FormatEpoch renders instants and durations as seconds.
	FormatEpoch OutputFormat = "epoch"
)

// Options contains everything needed to evaluate a batch of expressions.
type Options struct {
	Expressions []string       // Expressions given on the command line
	Files       []string       // Glob patterns of files holding one expression per line
	Now         time.Time      // Value substituted for "now"
	Location    *time.Location // Location used to render instants (nil = as evaluated)
	Format      OutputFormat
	Jobs        int // Maximum concurrent evaluations
}
