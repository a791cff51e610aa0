// Package engine is the dataselect reconciliation engine: the central
// coordinator that runs every phase of spec.md §2's pipeline in strict
// sequence over a batch of input files — ingest, coverage analysis,
// pruning, reconciliation, regrouping, and writing — and owns the
// lifecycle of every output sink. Generalizes iamNilotpal-ignite's
// internal/engine.Engine, which coordinated Index/Storage/Compaction:
// here the three subsystems are Trace View, Pruner, and Record Writer,
// run one-shot over a batch rather than serving a long-lived request
// loop, per SPEC_FULL.md §5's single-threaded, sequential model.
package engine

import (
	"errors"
	"os"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/archive"
	"github.com/iamNilotpal/dataselect/internal/coverage"
	"github.com/iamNilotpal/dataselect/internal/ingest"
	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/prune"
	"github.com/iamNilotpal/dataselect/internal/reconcile"
	"github.com/iamNilotpal/dataselect/internal/selection"
	"github.com/iamNilotpal/dataselect/internal/summary"
	"github.com/iamNilotpal/dataselect/internal/tracelist"
	"github.com/iamNilotpal/dataselect/internal/writer"
	dserrors "github.com/iamNilotpal/dataselect/pkg/errors"
	"github.com/iamNilotpal/dataselect/pkg/filesys"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

// ErrEngineClosed is returned when Run is called on an Engine that has
// already run (an Engine is single-use, matching a one-shot batch tool
// rather than a long-lived server).
var ErrEngineClosed = errors.New("dataselect: engine already run")

// Config holds everything one dataselect invocation needs.
type Config struct {
	Options options.Options
	Logger  *zap.SugaredLogger
	// Inputs is every positional input file, already resolved from
	// @listfile indirection and file@start:end byte-range suffixes.
	Inputs []*model.FileRef
}

// Engine coordinates one run of the full pipeline: ingest -> coverage ->
// prune -> reconcile -> regroup -> write -> summary.
type Engine struct {
	opts   options.Options
	log    *zap.SugaredLogger
	inputs []*model.FileRef

	ran atomic.Bool
}

// New validates config and builds an Engine ready to Run.
func New(config *Config) (*Engine, error) {
	if len(config.Inputs) == 0 {
		return nil, dserrors.NewConfigError(nil, "no input files provided")
	}
	return &Engine{opts: config.Options, log: config.Logger, inputs: config.Inputs}, nil
}

// Report summarizes one completed Run.
type Report struct {
	Ingest    []ingest.Result
	Summaries []writer.Summary
}

// Run executes the pipeline once, end to end, over every configured
// input file. It is not safe to call twice on the same Engine.
func (e *Engine) Run() (report Report, warnings error) {
	if !e.ran.CompareAndSwap(false, true) {
		return Report{}, ErrEngineClosed
	}

	filter, err := selection.New(e.opts)
	if err != nil {
		return Report{}, dserrors.NewConfigError(err, "failed to compile selection filter")
	}

	timeTolerance := model.NSTime(e.opts.TimeTolerance.Nanoseconds())
	arena := model.NewRecordArena(4096)
	tl := tracelist.New(arena, e.log, e.opts.SampleRateTolerance, timeTolerance)

	report = Report{Ingest: make([]ingest.Result, 0, len(e.inputs))}

	for _, ref := range e.inputs {
		res, err := ingest.File(tl, filter, ref, e.opts.Split, e.opts.SkipNotData, e.opts.MaxRecordLength, e.log)
		if err != nil {
			return report, err
		}
		report.Ingest = append(report.Ingest, res)
		e.log.Infow("ingested file", "file", ref.DisplayName, "read", res.RecordsRead, "admitted", res.RecordsAdmitted)
	}

	e.runPruneAndReconcile(tl, timeTolerance)

	output, archives, closeSinks, err := e.openSinks()
	if err != nil {
		return report, err
	}
	defer func() {
		if cerr := closeSinks(); cerr != nil {
			warnings = multierr.Append(warnings, cerr)
		}
	}()

	w := writer.New(arena, e.opts, e.log, output, archives)
	defer func() {
		if cerr := w.Close(); cerr != nil {
			warnings = multierr.Append(warnings, cerr)
		}
	}()

	for _, g := range writer.Regroup(tl) {
		if werr := w.Emit(g); werr != nil {
			warnings = multierr.Append(warnings, werr)
		}
	}
	report.Summaries = w.Summaries

	if e.opts.SummaryPath != "" {
		dst, closeSummary, serr := summary.Open(e.opts.SummaryPath)
		if serr != nil {
			warnings = multierr.Append(warnings, serr)
		} else {
			if werr := summary.Write(dst, e.opts.SummaryPrefix, w.Summaries); werr != nil {
				warnings = multierr.Append(warnings, werr)
			}
			if cerr := closeSummary(); cerr != nil {
				warnings = multierr.Append(warnings, cerr)
			}
		}
	}

	return report, warnings
}

// runPruneAndReconcile drives the Coverage Analyzer and Pruner over every
// TraceID/Segment in tl, in that order for each target, then runs the
// Reconciler once over the whole TraceList (spec.md §4.4-§4.5-§4.8).
func (e *Engine) runPruneAndReconcile(tl *tracelist.TraceList, timeTolerance model.NSTime) {
	tr := prune.Trace{
		Log:           e.log,
		TimeTolerance: timeTolerance,
		GlobalStart:   model.NSTUnset,
		GlobalEnd:     model.NSTUnset,
	}
	if !e.opts.StartTime.IsZero() {
		tr.GlobalStart = model.NSTime(e.opts.StartTime.UnixNano())
	}
	if !e.opts.EndTime.IsZero() {
		tr.GlobalEnd = model.NSTime(e.opts.EndTime.UnixNano())
	}

	for _, trace := range tl.Traces {
		for _, seg := range trace.Segments {
			tr.TimeTolerance = model.EffectiveTimeTolerance(timeTolerance, seg.SampleRate)
			cov := coverage.Find(tl, trace.Source, trace.PubVersion, seg, e.opts.BestVersion, e.opts.SampleRateTolerance, tr.TimeTolerance)
			prune.Run(tl.Arena, seg, cov, e.opts.Prune, tr)
		}
	}

	reconcile.Run(tl)
}

// openSinks opens the single-file output (if configured) and every
// archive Mux.
func (e *Engine) openSinks() (output *os.File, archives []*archive.Mux, closeFn func() error, err error) {
	if e.opts.OutputPath == "-" {
		output = os.Stdout
	} else if e.opts.OutputPath != "" {
		output, err = filesys.CreateFile(e.opts.OutputPath, !e.opts.OutputAppend)
		if err != nil {
			return nil, nil, nil, dserrors.NewIOError(err, dserrors.ErrorCodeIO, "failed to open output file").
				WithPath(e.opts.OutputPath)
		}
	}

	var muxes []*archive.Mux
	for _, sink := range e.opts.Archives {
		tmpl, terr := archive.Parse(sink.Template)
		if terr != nil {
			return nil, nil, nil, terr
		}
		muxes = append(muxes, archive.NewMux(tmpl, e.opts.ArchiveMaxOpenFiles, e.opts.ArchiveIdleTimeout, e.log))
	}

	closeFn = func() error {
		var errs error
		for _, m := range muxes {
			if cerr := m.CloseAll(); cerr != nil {
				errs = multierr.Append(errs, cerr)
			}
		}
		if output != nil && output != os.Stdout {
			if cerr := output.Close(); cerr != nil {
				errs = multierr.Append(errs, cerr)
			}
		}
		return errs
	}

	return output, muxes, closeFn, nil
}
