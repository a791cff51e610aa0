//go:build !unix

package main

import "go.uber.org/zap"

// raiseOpenFileLimit is a no-op on platforms without RLIMIT_NOFILE.
func raiseOpenFileLimit(want uint64, log *zap.SugaredLogger) {
	log.Debugw("RLIMIT_NOFILE raise skipped: unsupported platform", "wanted", want)
}
