// Package model holds the core data types of the reconciliation engine:
// the per-record metadata entry, the segment and trace-id groupings that
// own it, and the file reference a record's bytes are read back from.
//
// Records are allocated from a single growing arena (RecordArena) and
// referenced everywhere by RecordID rather than by pointer. This
// generalizes the pattern of iamNilotpal-ignite's internal/index/model.go
// RecordPointer — there, a byte Offset/EntrySize pair plus a SegmentID
// together locate a value on disk and are looked up by a string key; here
// a Record's Offset/RecLen pair plus its owning FileRef locate a miniSEED
// record on disk, and RecordID is the lookup key. The arena indirection
// avoids the aliasing pitfalls of the doubly- and singly-linked pointer
// structures the original C implementation builds with ad-hoc
// malloc/free (see SPEC_FULL.md §3 / §9).
package model

import "math"

// NSTime is a timestamp in nanoseconds since the Unix epoch, matching the
// nstime_t convention of the miniSEED library this tool's semantics are
// ported from.
type NSTime int64

// Sentinel values for NSTime fields that carry "optional" semantics
// (TrimBound.NewStart/NewEnd, SelectBound.Start/End). SPEC_FULL.md §9
// replaces the original source's NSTUNSET/NSTERROR integer sentinels with
// these named constants rather than a sum type, because every consumer
// already treats "unset" as "fall back to the original time" — a sum type
// would only add an unwrap at every call site.
const (
	NSTUnset NSTime = 1<<63 - 1 // math.MaxInt64; never a real timestamp in this domain
	NSTError NSTime = NSTUnset - 1
)

// IsSet reports whether t carries an explicit value rather than one of the
// sentinels above.
func (t NSTime) IsSet() bool { return t != NSTUnset && t != NSTError }

// NanosecondsPerSecond is the unit conversion this codebase threads
// through sample-period arithmetic instead of repeating the literal.
const NanosecondsPerSecond NSTime = 1_000_000_000

// SamplePeriod returns the nominal spacing between samples at rate sps, in
// nanoseconds. A zero or negative rate yields a zero period, matching
// SPEC_FULL.md §4.6's "sample_period = 0 if sample rate is zero" rule.
func SamplePeriod(sps float64) NSTime {
	if sps <= 0 {
		return 0
	}
	return NSTime(math.Round(float64(NanosecondsPerSecond) / sps))
}

// SourceID is the channel identity: network, station, location, channel
// codes. It is treated as an opaque key outside of equality and glob/regex
// matching, per SPEC_FULL.md §3.
type SourceID struct {
	Network  string
	Station  string
	Location string
	Channel  string
}

// String renders the canonical dotted form, e.g. "NET.STA.LOC.CHAN" or
// "NET.STA..CHAN" for a blank location — the form used throughout
// SPEC_FULL.md's scenarios and the archive %n.%s.%l.%c templates.
func (s SourceID) String() string {
	return s.Network + "." + s.Station + "." + s.Location + "." + s.Channel
}

// TraceID groups all Segments sharing one SourceID and publication
// version, per SPEC_FULL.md §3.
type TraceID struct {
	Source     SourceID
	PubVersion int

	// Segments is kept in non-decreasing start-time order; segments from
	// different TraceIDs (different versions) may overlap each other.
	Segments []*Segment

	// WriteList is not populated by the Writer: its regroup pass collects
	// the contributing Records of every TraceID sharing this SourceID into
	// writer.Group values instead, and this field stays empty.
	WriteList []RecordID
}

// Segment is one contiguous time interval at a given sample rate, owning
// the RecordList of records that constitute it (SPEC_FULL.md §3). Record
// linkage is by RecordID, doubly-linked through Record.Prev/Next, matching
// invariant I1 (non-decreasing start time) until the Pruner mutates it.
type Segment struct {
	StartTime, EndTime NSTime
	SampleRate         float64
	SampleCount        int64

	Head, Tail RecordID // RecordNone if the segment has no records left
}

// RecordNone is the arena-index sentinel for "no record" (an empty list
// head/tail, or an unset Prev/Next link).
const RecordNone RecordID = -1

// FileRef is the identity of an input file: its display name, an optional
// byte-range restriction, and per-file write statistics. It holds no read
// handle; the Writer opens the file the first time a record from it is
// emitted and keeps that handle in its own map. Owned by the process for
// its lifetime (SPEC_FULL.md §3, §5).
type FileRef struct {
	DisplayName string
	Path        string

	// ByteStart/ByteEnd restrict reads to [ByteStart, ByteEnd); -1 means
	// unbounded, from a "file@start:end" argument (addfile()).
	ByteStart, ByteEnd int64

	// Reordered counts out-of-order (prepend) insertions observed for
	// this file's records, a diagnostic carried from whence_of's
	// "reorder event" classification (SPEC_FULL.md §4.2).
	Reordered int

	// EarliestTime/LatestTime and BytesWritten accumulate across every
	// record emitted from this file's Segments, for the modification
	// summary (SPEC_FULL.md §6).
	EarliestTime, LatestTime NSTime
	BytesWritten             int64
}
