package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary: opening input files, seeking, reading record bytes,
	// writing to the single output file or an archive stream.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to flag values, selection files, and archive templates that are
	// malformed, contradictory, or out of range.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories: bugs, assertion failures, broken invariants.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Codec error codes cover the miniSEED parse/decode/trim/re-encode boundary.
const (
	// ErrorCodeCodecParseFailure indicates a record's header could not be
	// parsed during ingest. Without -snd this is fatal; with -snd the
	// unparsable stretch is skipped and ingest resumes at the next
	// plausible header.
	ErrorCodeCodecParseFailure ErrorCode = "CODEC_PARSE_FAILURE"

	// ErrorCodeCodecTrimFailure indicates a record that parsed cleanly at
	// ingest could not be unpacked again at write time for trimming. This
	// degrades: the untrimmed record is emitted and the rest of the
	// current source-ID's write list is skipped.
	ErrorCodeCodecTrimFailure ErrorCode = "CODEC_TRIM_FAILURE"

	// ErrorCodeUnsupportedEncoding indicates the record's sample encoding
	// is not one this codec can trim (outside {int16, int32, float32,
	// float64, compressed-int-stream-v1, compressed-int-stream-v2}, or a
	// compressed stream whose trim point does not land on a frame
	// boundary). Not an error in the fatal sense: trim is skipped and the
	// original record bytes are emitted unchanged.
	ErrorCodeUnsupportedEncoding ErrorCode = "UNSUPPORTED_ENCODING"

	// ErrorCodeCRCMismatch indicates a format-v3 record's header CRC did
	// not validate; ingest treats it as a parse failure.
	ErrorCodeCRCMismatch ErrorCode = "CRC_MISMATCH"
)

// Coverage/pruning error codes.
const (
	// ErrorCodeCoverageInvariantBreach indicates the Pruner computed a
	// TrimBound that would invert or fall outside its record's source
	// interval. The record is skipped with a warning; processing
	// continues.
	ErrorCodeCoverageInvariantBreach ErrorCode = "COVERAGE_INVARIANT_BREACH"
)

// Archive/sink error codes.
const (
	// ErrorCodeArchiveTemplate indicates a path template referenced an
	// unknown placeholder or produced an empty path segment.
	ErrorCodeArchiveTemplate ErrorCode = "ARCHIVE_TEMPLATE_ERROR"

	// ErrorCodePermissionDenied indicates insufficient permissions to open
	// or create an output file or archive directory.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates the output device has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates the output filesystem is
	// mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// ErrorCodeResourceExhaustion indicates a failed allocation or a file
// descriptor ceiling that could not be raised or mitigated by eviction.
const ErrorCodeResourceExhaustion ErrorCode = "RESOURCE_EXHAUSTION"
