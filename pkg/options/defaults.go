package options

import "time"

const (
	// DefaultSampleRateTolerance mirrors libmseed's MS_ISRATETOLERABLE
	// macro: two sample rates are tolerable when their relative
	// difference is within 0.0001 (0.01%).
	DefaultSampleRateTolerance = 0.0001

	// DefaultMaxRecordLength bounds the shared record buffer at the
	// largest record size the miniSEED v2/v3 formats allow in practice.
	DefaultMaxRecordLength = 1048576

	// DefaultArchiveMaxOpenFiles caps concurrently open archive streams
	// before the multiplexer starts evicting idle ones.
	DefaultArchiveMaxOpenFiles = 50

	// DefaultArchiveIdleTimeout is the starting idle threshold ds_closeidle
	// relaxes downward under descriptor pressure.
	DefaultArchiveIdleTimeout = 60 * time.Second
)

// defaultOptions holds the baseline configuration for a dataselect run:
// best-version priority on, no pruning, no splitting, tolerant defaults.
var defaultOptions = Options{
	TimeTolerance:       0, // 0 means "half a sample period", computed per comparison
	SampleRateTolerance: DefaultSampleRateTolerance,
	BestVersion:         true,
	Prune:               PruneNone,
	Split:               SplitNone,
	MaxRecordLength:     DefaultMaxRecordLength,
	ArchiveMaxOpenFiles: DefaultArchiveMaxOpenFiles,
	ArchiveIdleTimeout:  DefaultArchiveIdleTimeout,
}

// NewDefaultOptions returns a copy of the package's baseline options.
func NewDefaultOptions() Options {
	return defaultOptions
}
