package errors

// CoverageError reports a broken coverage/trim invariant: a TrimBound that
// would invert or fall outside its record's source interval. The offending
// record is skipped with a warning rather than aborting the run.
type CoverageError struct {
	*baseError
	sourceID  string
	recStart  int64
	recEnd    int64
	trimStart int64
	trimEnd   int64
}

// NewCoverageError creates a new coverage-invariant error.
func NewCoverageError(err error, code ErrorCode, msg string) *CoverageError {
	return &CoverageError{baseError: NewBaseError(err, code, msg)}
}

// WithSourceID records the channel identity of the offending record.
func (ce *CoverageError) WithSourceID(id string) *CoverageError {
	ce.sourceID = id
	return ce
}

// WithRecordInterval records the record's original [start,end] interval.
func (ce *CoverageError) WithRecordInterval(start, end int64) *CoverageError {
	ce.recStart, ce.recEnd = start, end
	return ce
}

// WithTrimInterval records the computed (invalid) trim bound.
func (ce *CoverageError) WithTrimInterval(start, end int64) *CoverageError {
	ce.trimStart, ce.trimEnd = start, end
	return ce
}

// SourceID returns the channel identity of the offending record.
func (ce *CoverageError) SourceID() string { return ce.sourceID }

// RecordInterval returns the record's original [start,end] interval.
func (ce *CoverageError) RecordInterval() (int64, int64) { return ce.recStart, ce.recEnd }

// TrimInterval returns the computed (invalid) trim bound.
func (ce *CoverageError) TrimInterval() (int64, int64) { return ce.trimStart, ce.trimEnd }
