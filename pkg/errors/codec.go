package errors

// CodecError is a specialized error type for miniSEED parse, decode, and
// re-encode failures. It embeds baseError and adds the context needed to
// diagnose exactly which record, in which file, at which phase, failed.
type CodecError struct {
	*baseError
	sourceID string // SourceID of the record being processed, if known.
	fileName string // File the record came from.
	offset   int64  // Byte offset of the record within that file.
	phase    string // "read" (ingest parse) or "trim" (write-time repack).
	encoding string // Sample encoding name, when known.
}

// NewCodecError creates a new codec-specific error.
func NewCodecError(err error, code ErrorCode, msg string) *CodecError {
	return &CodecError{baseError: NewBaseError(err, code, msg)}
}

// WithSourceID records the channel identity involved in the failure.
func (ce *CodecError) WithSourceID(id string) *CodecError {
	ce.sourceID = id
	return ce
}

// WithFileName records which file the failing record came from.
func (ce *CodecError) WithFileName(fileName string) *CodecError {
	ce.fileName = fileName
	return ce
}

// WithOffset records the byte offset of the failing record.
func (ce *CodecError) WithOffset(offset int64) *CodecError {
	ce.offset = offset
	return ce
}

// WithPhase records whether the failure happened during ingest parsing or
// write-time trimming.
func (ce *CodecError) WithPhase(phase string) *CodecError {
	ce.phase = phase
	return ce
}

// WithEncoding records the sample encoding, when known.
func (ce *CodecError) WithEncoding(encoding string) *CodecError {
	ce.encoding = encoding
	return ce
}

// WithDetail adds contextual information while maintaining the CodecError type.
func (ce *CodecError) WithDetail(key string, value any) *CodecError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// SourceID returns the channel identity involved in the failure.
func (ce *CodecError) SourceID() string { return ce.sourceID }

// FileName returns the file the failing record came from.
func (ce *CodecError) FileName() string { return ce.fileName }

// Offset returns the byte offset of the failing record.
func (ce *CodecError) Offset() int64 { return ce.offset }

// Phase returns "read" or "trim".
func (ce *CodecError) Phase() string { return ce.phase }

// Encoding returns the sample encoding, when known.
func (ce *CodecError) Encoding() string { return ce.encoding }
