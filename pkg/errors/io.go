package errors

// IOError is a specialized error type for input/output failures against
// input files, the single output file, or an archive stream. It embeds
// baseError to inherit chaining and structured details, then adds the
// location context needed to point at exactly which file and offset were
// involved.
type IOError struct {
	*baseError
	fileName string // Base name of the file that caused the issue.
	path     string // Full path of the file that caused the issue.
	offset   int64  // Byte offset within the file where the problem happened.
}

// NewIOError creates a new IO-specific error.
func NewIOError(err error, code ErrorCode, msg string) *IOError {
	return &IOError{baseError: NewBaseError(err, code, msg)}
}

// WithFileName captures which file was being processed when the error occurred.
func (ie *IOError) WithFileName(fileName string) *IOError {
	ie.fileName = fileName
	return ie
}

// WithPath captures which path was being processed when the error occurred.
func (ie *IOError) WithPath(path string) *IOError {
	ie.path = path
	return ie
}

// WithOffset records the byte position where the error occurred.
func (ie *IOError) WithOffset(offset int64) *IOError {
	ie.offset = offset
	return ie
}

// WithDetail adds contextual information while maintaining the IOError type.
func (ie *IOError) WithDetail(key string, value any) *IOError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// FileName returns the name of the file that was being processed.
func (ie *IOError) FileName() string {
	return ie.fileName
}

// Path returns the path of the file that was being processed.
func (ie *IOError) Path() string {
	return ie.path
}

// Offset returns the byte offset within the file where the error happened.
func (ie *IOError) Offset() int64 {
	return ie.offset
}
