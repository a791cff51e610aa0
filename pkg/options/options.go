// Package options provides data structures and functions for configuring a
// dataselect run. It defines the tolerances, pruning mode, selection
// criteria, and output sinks that control how the reconciliation engine
// treats a batch of input files, following the functional-options pattern
// used throughout this codebase's sibling packages.
package options

import (
	"strings"
	"time"
)

// PruneMode selects how the Pruner treats overlap between records.
type PruneMode int

const (
	// PruneNone performs no overlap pruning; all ingested records are
	// written out (still subject to selection filtering and splitting).
	PruneNone PruneMode = iota
	// PruneRecord drops whole records that are fully covered by a
	// higher-priority peer (spec.md §4.5 Phase A only).
	PruneRecord
	// PruneSample additionally trims partially-overlapped records at
	// sample granularity (spec.md §4.5 Phases A+B).
	PruneSample
	// PruneEdgesOnly applies only the selection-derived TrimBound, no
	// peer-overlap trimming (spec.md §4.5 Phase C).
	PruneEdgesOnly
)

// SplitGranularity selects the boundary-split behavior of the Trace View.
type SplitGranularity int

const (
	// SplitNone performs no boundary splitting.
	SplitNone SplitGranularity = iota
	SplitDay
	SplitHour
	SplitMinute
)

// Selection is one parsed line of a selection file: `NET STA LOC CHAN
// [QUAL] [STARTTIME] [ENDTIME]`, per spec.md §6.
type Selection struct {
	Network, Station, Location, Channel string
	Quality                             string
	Start, End                          time.Time // zero value means unbounded
}

// ArchiveSink is one configured archive output: a path template (using the
// `%`/`#` placeholder grammar of spec.md §6) multiplexed across many open
// files.
type ArchiveSink struct {
	Template string
}

// Options holds every tunable of a dataselect run.
type Options struct {
	// Tolerance controls when two records are considered time-adjacent.
	// Zero means "use half a sample period", overridden by -tt.
	TimeTolerance time.Duration

	// SampleRateTolerance is the maximum relative difference between two
	// sample rates for them to be considered the same channel, overridden
	// by -rt. Expressed as a fraction (0.0001 = 0.01%).
	SampleRateTolerance float64

	// BestVersion enables publication-version priority in the Coverage
	// Analyzer (disabled by -E).
	BestVersion bool

	// Prune selects the pruning phase(s) to run.
	Prune PruneMode

	// Split selects the Trace View's boundary-split granularity.
	Split SplitGranularity

	// SkipNotData tolerates unparsable stretches during ingest (-snd)
	// instead of treating them as fatal.
	SkipNotData bool

	// StartTime/EndTime are the global inclusion bounds (-ts/-te). Zero
	// value means unbounded.
	StartTime, EndTime time.Time

	// MatchExpr/RejectExpr are legacy regex SourceID filters (-M/-R).
	MatchExpr, RejectExpr string

	// SourceMatch is a glob SourceID filter (-m), auto-wrapped with
	// `*...*` for substring matching.
	SourceMatch string

	// Selections is the parsed contents of a -s selection file.
	Selections []Selection

	// QualityOverride re-stamps the publication version/quality of every
	// output record when non-empty (-Q).
	QualityOverride string

	// OutputPath is the single-file sink (-o/+o); empty disables it.
	OutputPath string
	// OutputAppend selects +o (append) over -o (overwrite/create).
	OutputAppend bool

	// Archives are the configured archive sinks (-A and layout presets).
	Archives []ArchiveSink

	// SummaryPath is the -out destination ("" disables, "-" is stdout,
	// "--" is stderr).
	SummaryPath string
	// SummaryPrefix is prepended to every -outprefix summary line.
	SummaryPrefix string

	// Verbose is the verbosity level, incremented once per -v.
	Verbose int

	// MaxRecordLength bounds the shared record buffer (spec.md §5).
	MaxRecordLength int

	// ArchiveMaxOpenFiles caps concurrently open archive streams before
	// idle eviction kicks in.
	ArchiveMaxOpenFiles int
	// ArchiveIdleTimeout is the starting idle threshold for eviction;
	// ds_closeidle-style relaxation halves it down toward zero under
	// pressure.
	ArchiveIdleTimeout time.Duration
}

// OptionFunc is a function type that modifies a dataselect run's Options.
type OptionFunc func(*Options)

// WithDefaultOptions applies the package's default configuration values.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		d := NewDefaultOptions()
		*o = d
	}
}

// WithTimeTolerance overrides the time-adjacency tolerance (-tt).
func WithTimeTolerance(d time.Duration) OptionFunc {
	return func(o *Options) {
		if d >= 0 {
			o.TimeTolerance = d
		}
	}
}

// WithSampleRateTolerance overrides the sample-rate tolerance (-rt).
func WithSampleRateTolerance(frac float64) OptionFunc {
	return func(o *Options) {
		if frac > 0 {
			o.SampleRateTolerance = frac
		}
	}
}

// WithBestVersion toggles publication-version priority (-E disables it).
func WithBestVersion(enabled bool) OptionFunc {
	return func(o *Options) { o.BestVersion = enabled }
}

// WithPruneMode selects the pruning phase(s) (-Pr/-Ps/-Pe).
func WithPruneMode(m PruneMode) OptionFunc {
	return func(o *Options) { o.Prune = m }
}

// WithSplit selects the boundary-split granularity (-Sd/-Sh/-Sm).
func WithSplit(g SplitGranularity) OptionFunc {
	return func(o *Options) { o.Split = g }
}

// WithSkipNotData enables tolerant ingest of non-miniSEED stretches (-snd).
func WithSkipNotData(enabled bool) OptionFunc {
	return func(o *Options) { o.SkipNotData = enabled }
}

// WithTimeWindow sets the global inclusion bounds (-ts/-te).
func WithTimeWindow(start, end time.Time) OptionFunc {
	return func(o *Options) { o.StartTime, o.EndTime = start, end }
}

// WithSourceMatch sets the SourceID glob filter (-m).
func WithSourceMatch(pattern string) OptionFunc {
	return func(o *Options) {
		pattern = strings.TrimSpace(pattern)
		if pattern != "" {
			o.SourceMatch = pattern
		}
	}
}

// WithMatchExpr sets the legacy regex match filter (-M).
func WithMatchExpr(expr string) OptionFunc {
	return func(o *Options) { o.MatchExpr = expr }
}

// WithRejectExpr sets the legacy regex reject filter (-R).
func WithRejectExpr(expr string) OptionFunc {
	return func(o *Options) { o.RejectExpr = expr }
}

// WithSelections sets the parsed selection-file entries (-s).
func WithSelections(sel []Selection) OptionFunc {
	return func(o *Options) { o.Selections = sel }
}

// WithQualityOverride sets the re-stamped publication version/quality (-Q).
func WithQualityOverride(q string) OptionFunc {
	return func(o *Options) { o.QualityOverride = q }
}

// WithOutput sets the single-file sink (-o/+o).
func WithOutput(path string, appendMode bool) OptionFunc {
	return func(o *Options) {
		o.OutputPath = path
		o.OutputAppend = appendMode
	}
}

// WithArchive adds an archive sink with the given path template (-A and
// layout presets).
func WithArchive(template string) OptionFunc {
	return func(o *Options) {
		template = strings.TrimSpace(template)
		if template != "" {
			o.Archives = append(o.Archives, ArchiveSink{Template: template})
		}
	}
}

// WithSummary sets the modification-summary destination (-out/-outprefix).
func WithSummary(path, prefix string) OptionFunc {
	return func(o *Options) {
		o.SummaryPath = path
		o.SummaryPrefix = prefix
	}
}

// WithVerbose sets the verbosity level (-v repeated).
func WithVerbose(level int) OptionFunc {
	return func(o *Options) {
		if level > 0 {
			o.Verbose = level
		}
	}
}

// WithArchiveLimits overrides the Archive multiplexer's open-file cap and
// starting idle-eviction timeout.
func WithArchiveLimits(maxOpen int, idleTimeout time.Duration) OptionFunc {
	return func(o *Options) {
		if maxOpen > 0 {
			o.ArchiveMaxOpenFiles = maxOpen
		}
		if idleTimeout > 0 {
			o.ArchiveIdleTimeout = idleTimeout
		}
	}
}

// Apply builds an Options value from the teacher-style defaults plus any
// supplied OptionFuncs, in order.
func Apply(opts ...OptionFunc) Options {
	o := NewDefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
