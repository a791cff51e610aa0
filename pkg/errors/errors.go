// Package errors gives every layer of the reconciliation engine — ingest,
// coverage analysis, pruning, trimming, and archive output — a common error
// shape: a cause, a human message, a programmatic code, and structured
// details, plus a typed wrapper carrying the context specific to where the
// failure happened.
//
// Architecture and Design Philosophy:
//
// The error system is built around a hierarchical structure that starts with
// a foundational baseError and extends into domain-specific error types.
// This design keeps a consistent Error()/Unwrap()/Code()/Details() surface
// across every error while letting each layer attach the context it alone
// has: a CodecError knows the source-ID, file, and offset of the record it
// was decoding; a CoverageError knows the interval that broke an invariant;
// an IOError knows the path and byte offset of the failing syscall.
//
// Recovery vs. surfacing follows spec.md §7: per-record codec failures
// during trim, unsupported encodings, and coverage-invariant breaches
// degrade gracefully (the original record is preferred over dropping data),
// while ConfigError, IOError, and ResourceError abort the run with a single
// ERROR: line.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError checks if the given error is a ValidationError or contains one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsIOError determines if an error is related to file I/O: opening,
// seeking, reading, or writing input, output, or archive files.
func IsIOError(err error) bool {
	var ie *IOError
	return stdErrors.As(err, &ie)
}

// IsCodecError identifies errors from the miniSEED parse/decode/re-encode
// boundary, whether during ingest or write-time trimming.
func IsCodecError(err error) bool {
	var ce *CodecError
	return stdErrors.As(err, &ce)
}

// IsCoverageError identifies a broken coverage/trim invariant.
func IsCoverageError(err error) bool {
	var ce *CoverageError
	return stdErrors.As(err, &ce)
}

// IsResourceError identifies a resource-exhaustion failure (fd or memory).
func IsResourceError(err error) bool {
	var re *ResourceError
	return stdErrors.As(err, &re)
}

// IsArchiveError identifies a failure in the archive templating/multiplexing layer.
func IsArchiveError(err error) bool {
	var ae *ArchiveError
	return stdErrors.As(err, &ae)
}

// IsConfigError identifies an invalid flag, template, or flag combination.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return stdErrors.As(err, &ce)
}

// AsValidationError safely extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsIOError safely extracts an IOError from an error chain.
func AsIOError(err error) (*IOError, bool) {
	var ie *IOError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// AsCodecError safely extracts a CodecError from an error chain.
func AsCodecError(err error) (*CodecError, bool) {
	var ce *CodecError
	if stdErrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsCoverageError safely extracts a CoverageError from an error chain.
func AsCoverageError(err error) (*CoverageError, bool) {
	var ce *CoverageError
	if stdErrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsResourceError safely extracts a ResourceError from an error chain.
func AsResourceError(err error) (*ResourceError, bool) {
	var re *ResourceError
	if stdErrors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// AsArchiveError safely extracts an ArchiveError from an error chain.
func AsArchiveError(err error) (*ArchiveError, bool) {
	var ae *ArchiveError
	if stdErrors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// AsConfigError safely extracts a ConfigError from an error chain.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if stdErrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or
// returns ErrorCodeInternal for errors that don't have specific codes.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if ie, ok := AsIOError(err); ok {
		return ie.Code()
	}
	if ce, ok := AsCodecError(err); ok {
		return ce.Code()
	}
	if ce, ok := AsCoverageError(err); ok {
		return ce.Code()
	}
	if re, ok := AsResourceError(err); ok {
		return re.Code()
	}
	if ae, ok := AsArchiveError(err); ok {
		return ae.Code()
	}
	if ce, ok := AsConfigError(err); ok {
		return ce.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports
// them, returning an empty map for errors without details.
func GetErrorDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok && ve.Details() != nil {
		return ve.Details()
	}
	if ie, ok := AsIOError(err); ok && ie.Details() != nil {
		return ie.Details()
	}
	if ce, ok := AsCodecError(err); ok && ce.Details() != nil {
		return ce.Details()
	}
	if ce, ok := AsCoverageError(err); ok && ce.Details() != nil {
		return ce.Details()
	}
	if re, ok := AsResourceError(err); ok && re.Details() != nil {
		return re.Details()
	}
	if ae, ok := AsArchiveError(err); ok && ae.Details() != nil {
		return ae.Details()
	}
	return make(map[string]any)
}

// ClassifyFileOpenError analyzes file opening failures — for an input file,
// the single output file, or an archive stream — and returns the specific
// IOError code the underlying system error maps to.
func ClassifyFileOpenError(err error, filePath, fileName string) error {
	if os.IsPermission(err) {
		return NewIOError(
			err, ErrorCodePermissionDenied,
			"insufficient permissions to open file",
		).WithPath(filePath).
			WithFileName(fileName).
			WithDetail("operation", "file_open").
			WithDetail("suggestion", "check file permissions or run with elevated privileges")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewIOError(
					err, ErrorCodeDiskFull,
					"insufficient disk space to create file",
				).WithPath(filePath).
					WithFileName(fileName).
					WithDetail("operation", "file_open").
					WithDetail("suggestion", "free up disk space")
			case syscall.EROFS:
				return NewIOError(
					err, ErrorCodeFilesystemReadonly,
					"cannot create file on read-only filesystem",
				).WithPath(filePath).
					WithFileName(fileName).
					WithDetail("operation", "file_open").
					WithDetail("suggestion", "remount filesystem with write permissions")
			case syscall.EMFILE, syscall.ENFILE:
				return NewResourceError(err, "too many open files").
					WithResource("fd").
					WithDetail("path", filePath).
					WithDetail("fileName", fileName)
			}
		}
	}

	return NewIOError(err, ErrorCodeIO, "failed to open file").
		WithPath(filePath).
		WithFileName(fileName).
		WithDetail("operation", "file_open")
}

// ClassifyDirectoryCreationError analyzes archive directory creation
// failures and returns the specific IOError code the underlying system
// error maps to.
func ClassifyDirectoryCreationError(err error, path string) error {
	if os.IsPermission(err) {
		return NewIOError(
			err, ErrorCodePermissionDenied,
			"insufficient permissions to create archive directory",
		).WithPath(path).
			WithDetail("operation", "directory_creation").
			WithDetail("suggestion", "check directory permissions or run with elevated privileges")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewIOError(
					err, ErrorCodeDiskFull,
					"insufficient disk space to create archive directory",
				).WithPath(path).
					WithDetail("operation", "directory_creation").
					WithDetail("suggestion", "free up disk space or choose a different location")
			case syscall.EROFS:
				return NewIOError(
					err, ErrorCodeFilesystemReadonly,
					"cannot create directory on read-only filesystem",
				).WithPath(path).
					WithDetail("operation", "directory_creation").
					WithDetail("suggestion", "remount filesystem with write permissions")
			}
		}
	}

	return NewIOError(
		err, ErrorCodeIO, "failed to create archive directory",
	).WithPath(path).WithDetail("operation", "directory_creation")
}

// ClassifySyncError analyzes flush/sync failures on an output stream and
// returns the specific IOError code the underlying system error maps to.
func ClassifySyncError(err error, fileName, filePath string, offset int64) error {
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewIOError(
					err, ErrorCodeDiskFull,
					"cannot sync file: insufficient disk space",
				).WithFileName(fileName).
					WithPath(filePath).
					WithOffset(offset).
					WithDetail("operation", "file_sync").
					WithDetail("suggestion", "free up disk space before continuing")
			case syscall.EROFS:
				return NewIOError(
					err, ErrorCodeFilesystemReadonly,
					"cannot sync file: filesystem is read-only",
				).WithFileName(fileName).
					WithPath(filePath).
					WithOffset(offset).
					WithDetail("operation", "file_sync")
			case syscall.EIO:
				return NewIOError(
					err, ErrorCodeIO,
					"I/O error during file sync - possible hardware or corruption issue",
				).WithFileName(fileName).
					WithPath(filePath).
					WithOffset(offset).
					WithDetail("operation", "file_sync").
					WithDetail("severity", "high")
			}
		}
	}

	return NewIOError(
		err, ErrorCodeIO, "failed to sync file to disk",
	).WithFileName(fileName).WithPath(filePath).WithOffset(offset).
		WithDetail("operation", "file_sync")
}
