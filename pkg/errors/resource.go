package errors

// ResourceError reports that the process could not obtain a resource it
// needed to continue: a file descriptor the Archive multiplexer could not
// free up by eviction, or a failed memory allocation. These abort the run.
type ResourceError struct {
	*baseError
	resource  string // "fd" or "memory"
	requested int64
	limit     int64
}

// NewResourceError creates a new resource-exhaustion error.
func NewResourceError(err error, msg string) *ResourceError {
	return &ResourceError{baseError: NewBaseError(err, ErrorCodeResourceExhaustion, msg)}
}

// WithResource names the kind of resource that was exhausted.
func (re *ResourceError) WithResource(kind string) *ResourceError {
	re.resource = kind
	return re
}

// WithLimits records what was requested against the observed limit.
func (re *ResourceError) WithLimits(requested, limit int64) *ResourceError {
	re.requested, re.limit = requested, limit
	return re
}

// Resource returns the kind of resource that was exhausted.
func (re *ResourceError) Resource() string { return re.resource }

// Limits returns the requested amount and the observed limit.
func (re *ResourceError) Limits() (int64, int64) { return re.requested, re.limit }

// ArchiveError reports a failure in the archive templating/multiplexing
// layer: an unknown placeholder, an empty expanded path segment, or a
// stream that could not be opened after eviction was attempted.
type ArchiveError struct {
	*baseError
	template string
	path     string
}

// NewArchiveError creates a new archive-layer error.
func NewArchiveError(err error, code ErrorCode, msg string) *ArchiveError {
	return &ArchiveError{baseError: NewBaseError(err, code, msg)}
}

// WithTemplate records the offending template string.
func (ae *ArchiveError) WithTemplate(tmpl string) *ArchiveError {
	ae.template = tmpl
	return ae
}

// WithPath records the expanded path that failed to open.
func (ae *ArchiveError) WithPath(path string) *ArchiveError {
	ae.path = path
	return ae
}

// Template returns the offending template string.
func (ae *ArchiveError) Template() string { return ae.template }

// Path returns the expanded path that failed to open.
func (ae *ArchiveError) Path() string { return ae.path }

// ConfigError reports an unparsable flag value, an empty path template, or
// a combination of flags that conflict with each other.
type ConfigError struct {
	*baseError
	flag     string
	provided any
}

// NewConfigError creates a new configuration error.
func NewConfigError(err error, msg string) *ConfigError {
	return &ConfigError{baseError: NewBaseError(err, ErrorCodeInvalidInput, msg)}
}

// WithFlag records which flag was invalid.
func (ce *ConfigError) WithFlag(flag string) *ConfigError {
	ce.flag = flag
	return ce
}

// WithProvided records the value the user supplied.
func (ce *ConfigError) WithProvided(value any) *ConfigError {
	ce.provided = value
	return ce
}

// Flag returns which flag was invalid.
func (ce *ConfigError) Flag() string { return ce.flag }

// Provided returns the value the user supplied.
func (ce *ConfigError) Provided() any { return ce.provided }
