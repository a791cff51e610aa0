// Package reconcile implements the Reconciler (SPEC_FULL.md §4.8): after
// pruning, it walks every Segment of a TraceList and restores invariant
// I4 by resetting each Segment's starttime/endtime to the effective bounds
// of its first and last surviving Record.
package reconcile

import (
	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/tracelist"
)

// Run walks every TraceID and Segment in tl, updating Segment.StartTime/
// EndTime in place to the first/last contributing Record's effective
// bounds, subject to the sanity checks of SPEC_FULL.md §4.8: the new start
// must be later than the old one, and the new end must be earlier.
func Run(tl *tracelist.TraceList) {
	for _, trace := range tl.Traces {
		for _, seg := range trace.Segments {
			Segment(tl.Arena, seg)
		}
	}
}

// Segment reconciles a single Segment against its own RecordList.
func Segment(arena *model.RecordArena, seg *model.Segment) {
	var first, last *model.Record

	arena.Walk(seg, func(_ model.RecordID, rec *model.Record) bool {
		if !rec.Contributing() {
			return true
		}
		if first == nil {
			first = rec
		}
		last = rec
		return true
	})

	if first == nil {
		// No surviving records: leave the Segment's bounds as-is: the
		// Writer's regroup pass excludes it from the write list since it
		// contributes no records, so its now-stale bounds are never
		// observed downstream.
		return
	}

	newStart := effectiveStart(first)
	if newStart > seg.StartTime {
		seg.StartTime = newStart
	}

	newEnd := effectiveEnd(last)
	if newEnd < seg.EndTime {
		seg.EndTime = newEnd
	}
}

func effectiveStart(rec *model.Record) model.NSTime {
	if rec.Trim.NewStart.IsSet() {
		return rec.Trim.NewStart
	}
	return rec.StartTime
}

func effectiveEnd(rec *model.Record) model.NSTime {
	if rec.Trim.NewEnd.IsSet() {
		return rec.Trim.NewEnd
	}
	return rec.EndTime
}
