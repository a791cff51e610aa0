//go:build unix

package main

import (
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// raiseOpenFileLimit raises the process's soft RLIMIT_NOFILE toward want,
// never past the hard limit (SPEC_FULL.md §5). Failure is logged, not
// fatal: the Archive multiplexer's idle-eviction path tolerates descriptor
// pressure on its own.
func raiseOpenFileLimit(want uint64, log *zap.SugaredLogger) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		log.Debugw("failed to read RLIMIT_NOFILE", "error", err)
		return
	}

	target := want
	if rlim.Max > 0 && target > rlim.Max {
		target = rlim.Max
	}
	if target <= rlim.Cur {
		return
	}

	raised := rlim
	raised.Cur = target
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &raised); err != nil {
		log.Debugw("failed to raise RLIMIT_NOFILE", "wanted", target, "current", rlim.Cur, "error", err)
		return
	}
	log.Debugw("raised RLIMIT_NOFILE", "from", rlim.Cur, "to", target)
}
