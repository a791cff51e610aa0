// Package tracelist implements the Trace View: it unifies every ingested
// record into TraceIDs -> Segments -> RecordLists (SPEC_FULL.md §4.2),
// deciding for each new record whether it starts a Segment, extends one,
// or prepends to one (a "reorder" event).
package tracelist

import (
	"sort"

	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/model"
)

// Whence classifies where a record landed when it was added to a Segment.
type Whence int

const (
	// WhenceNew means the record started a freshly allocated Segment.
	WhenceNew Whence = iota
	// WhenceAppend means the record extended the Segment at its end.
	WhenceAppend
	// WhencePrepend means the record extended the Segment at its
	// beginning — a reorder event, recorded per FileRef for diagnostics.
	WhencePrepend
)

// TraceList owns every TraceID discovered during ingest and the single
// RecordArena every Segment's RecordList is built from. Per SPEC_FULL.md
// §5 the engine is strictly single-threaded and sequential, so unlike the
// teacher's internal/storage.Storage and internal/index.Index this type
// carries no mutex or closed-once guard: there is no concurrent access to
// serialize against.
type TraceList struct {
	Arena  *model.RecordArena
	Traces []*model.TraceID

	log *zap.SugaredLogger

	// SampleRateTolerance is the relative difference within which two
	// rates are considered the same channel (spec.md §4.2).
	SampleRateTolerance float64
	// TimeTolerance, if positive, overrides the default half-sample-period
	// tolerance (-tt).
	TimeTolerance model.NSTime
}

// New builds an empty TraceList backed by arena.
func New(arena *model.RecordArena, log *zap.SugaredLogger, sampleRateTolerance float64, timeTolerance model.NSTime) *TraceList {
	return &TraceList{
		Arena:               arena,
		log:                 log,
		SampleRateTolerance: sampleRateTolerance,
		TimeTolerance:       timeTolerance,
	}
}

// findOrCreateTrace locates the TraceID for (source, pubVersion), creating
// and inserting one in sorted order if none exists yet. TraceList keeps
// Traces sorted by SourceID string then publication version, matching the
// deterministic TraceList iteration order SPEC_FULL.md §5 requires of the
// regroup and write passes.
func (tl *TraceList) findOrCreateTrace(source model.SourceID, pubVersion int) *model.TraceID {
	key := source.String()
	i := sort.Search(len(tl.Traces), func(i int) bool {
		t := tl.Traces[i]
		if t.Source.String() != key {
			return t.Source.String() >= key
		}
		return t.PubVersion >= pubVersion
	})
	if i < len(tl.Traces) {
		t := tl.Traces[i]
		if t.Source.String() == key && t.PubVersion == pubVersion {
			return t
		}
	}
	t := &model.TraceID{Source: source, PubVersion: pubVersion}
	tl.Traces = append(tl.Traces, nil)
	copy(tl.Traces[i+1:], tl.Traces[i:])
	tl.Traces[i] = t
	return t
}

// AddRecord is add_record(record_meta, parsed_view) -> Segment from
// SPEC_FULL.md §4.2. It finds or creates the TraceID for (source,
// pubVersion), finds or creates the Segment the record fits in, links the
// record into that Segment's RecordList, and returns the Segment, the new
// record's RecordID, and the Whence classification.
func (tl *TraceList) AddRecord(source model.SourceID, pubVersion int, rec model.Record, sampleCount int64) (*model.Segment, model.RecordID, Whence) {
	trace := tl.findOrCreateTrace(source, pubVersion)
	tol := model.EffectiveTimeTolerance(tl.TimeTolerance, rec.SampleRate)

	for _, seg := range trace.Segments {
		if !model.RatesTolerable(seg.SampleRate, rec.SampleRate, tl.SampleRateTolerance) {
			continue
		}
		if whence, ok := fits(seg, rec.StartTime, rec.EndTime, rec.SampleRate, tol); ok {
			var id model.RecordID
			switch whence {
			case WhenceAppend:
				id = tl.Arena.Append(seg, rec)
				seg.EndTime = rec.EndTime
			case WhencePrepend:
				id = tl.Arena.Prepend(seg, rec)
				seg.StartTime = rec.StartTime
				if rec.File != nil {
					rec.File.Reordered++
				}
			}
			seg.SampleCount += sampleCount
			return seg, id, whence
		}
	}

	seg := &model.Segment{
		StartTime:   rec.StartTime,
		EndTime:     rec.EndTime,
		SampleRate:  rec.SampleRate,
		SampleCount: sampleCount,
		Head:        model.RecordNone,
		Tail:        model.RecordNone,
	}
	id := tl.Arena.Append(seg, rec)
	insertSegmentSorted(trace, seg)
	return seg, id, WhenceNew
}

// insertSegmentSorted inserts seg into trace.Segments keeping non-
// decreasing start-time order, per SPEC_FULL.md §3's Segment ordering
// rule.
func insertSegmentSorted(trace *model.TraceID, seg *model.Segment) {
	i := sort.Search(len(trace.Segments), func(i int) bool {
		return trace.Segments[i].StartTime >= seg.StartTime
	})
	trace.Segments = append(trace.Segments, nil)
	copy(trace.Segments[i+1:], trace.Segments[i:])
	trace.Segments[i] = seg
}

// fits implements whence_of: classifies whether a candidate record abuts
// seg's end (append), abuts seg's beginning (prepend), or fits neither
// (caller should start a new Segment). For a zero-duration record that
// sits within tolerance of both endpoints, the tie is broken toward
// whichever endpoint is nearer the record's start, per SPEC_FULL.md
// §4.2.
func fits(seg *model.Segment, recStart, recEnd model.NSTime, sps float64, tol model.NSTime) (Whence, bool) {
	period := model.SamplePeriod(sps)

	dEnd := absNS(recStart - (seg.EndTime + period))
	dStart := absNS((recEnd + period) - seg.StartTime)

	appendFits := dEnd <= tol
	prependFits := dStart <= tol

	if appendFits && prependFits && recStart == recEnd {
		if dEnd <= dStart {
			return WhenceAppend, true
		}
		return WhencePrepend, true
	}
	if appendFits {
		return WhenceAppend, true
	}
	if prependFits {
		return WhencePrepend, true
	}
	return WhenceNew, false
}

func absNS(v model.NSTime) model.NSTime {
	if v < 0 {
		return -v
	}
	return v
}
