// Package prune implements the Pruner (SPEC_FULL.md §4.5): given a target
// Segment and its Coverage (as derived by internal/coverage), it mutates
// Record metadata in place — never record bytes — to drop whole records
// fully shadowed by a higher-priority peer, and optionally trims partially
// overlapped records at sample granularity. It never writes data.
package prune

import (
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

// Trace carries the tolerances the Pruner needs per target.
type Trace struct {
	Log           *zap.SugaredLogger
	TimeTolerance model.NSTime
	GlobalStart   model.NSTime // model.NSTUnset if unbounded
	GlobalEnd     model.NSTime // model.NSTUnset if unbounded
}

// Run is trimtrace(target_seg, coverage) from SPEC_FULL.md §4.5. mode
// selects which phases execute: PruneRecord runs Phase A only, PruneSample
// runs A+B, PruneEdgesOnly runs Phase C only (the select-derived TrimBound
// already set by the Selection Filter, with no peer-overlap trimming), and
// PruneNone is a no-op.
func Run(arena *model.RecordArena, target *model.Segment, cov model.Coverage, mode options.PruneMode, tr Trace) {
	if mode == options.PruneNone || mode == options.PruneEdgesOnly {
		return
	}

	period := model.SamplePeriod(target.SampleRate)

	arena.Walk(target, func(_ model.RecordID, rec *model.Record) bool {
		if !rec.Contributing() {
			return true
		}

		es, ee := rec.Effective()

		// Phase A: whole-record removal.
		if containedInCoverage(cov, es, ee, tr.TimeTolerance) {
			rec.RecLen = 0
			return true
		}

		if mode != options.PruneSample {
			return true
		}

		// Phase B: sample-level trim against every overlapping coverage
		// interval. Re-read the effective interval each iteration since a
		// prior interval's trim may have narrowed it.
		for _, c := range cov {
			es, ee = rec.Effective()
			if !rec.Contributing() {
				break
			}

			switch {
			case es < c.Start && ee+tr.TimeTolerance >= c.Start:
				newEnd := c.Start - period + tr.TimeTolerance
				if tr.GlobalStart.IsSet() && newEnd < tr.GlobalStart {
					rec.RecLen = 0
					return true
				}
				rec.Trim.NewEnd = newEnd
			case ee > c.End && es-tr.TimeTolerance <= c.End:
				newStart := c.End + period - tr.TimeTolerance
				if tr.GlobalEnd.IsSet() && newStart > tr.GlobalEnd {
					rec.RecLen = 0
					return true
				}
				rec.Trim.NewStart = newStart
			default:
				continue
			}

			if collapsed(rec, tr.TimeTolerance) {
				rec.RecLen = 0
				return true
			}
		}

		return true
	})
}

// containedInCoverage reports whether [start, end] falls inside any
// Coverage entry expanded by ±timeTolerance, the test Phase A applies.
func containedInCoverage(cov model.Coverage, start, end, tol model.NSTime) bool {
	for _, c := range cov {
		if start >= c.Start-tol && end <= c.End+tol {
			return true
		}
	}
	return false
}

// collapsed reports whether rec's effective interval has shrunk to
// nothing (or less) after a trim, per SPEC_FULL.md §4.5's self-collapse
// rule: effective_start >= effective_end - timeTolerance. It makes no
// exception for records produced by boundary splitting (tracelist.
// SplitAtBoundaries): a split part that collapses after a trim is dropped
// like any other record.
func collapsed(rec *model.Record, tol model.NSTime) bool {
	es, ee := rec.Effective()
	return es >= ee-tol
}
