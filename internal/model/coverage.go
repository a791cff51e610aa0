package model

// CoverageInterval is one (start, end, sample-rate, pub-version) interval
// in a Coverage: a stretch of time where a target Segment is dominated by
// a higher-priority peer. Transient — allocated and discarded per pruning
// call (SPEC_FULL.md §3).
type CoverageInterval struct {
	Start, End NSTime
	SampleRate float64
	PubVersion int
}

// Coverage is the list of intervals the Coverage Analyzer derives for one
// target Segment, in the order they were derived. Entries are not sorted
// and may overlap.
type Coverage []CoverageInterval
