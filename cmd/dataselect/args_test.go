package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeArgs_RewritesLegacyLongFlags(t *testing.T) {
	got := normalizeArgs([]string{"-tt", "1.5", "-CHAN", "/tmp/out", "+o", "/tmp/x.mseed", "-V", "-s", "sel.txt", "--append-output", "y", "file.mseed"})
	want := []string{"--tt", "1.5", "--CHAN", "/tmp/out", "--append-output", "/tmp/x.mseed", "-V", "-s", "sel.txt", "--append-output", "y", "file.mseed"}
	require.Equal(t, want, got)
}

func TestNormalizeArgs_LeavesShortFlagsAndPositionalsAlone(t *testing.T) {
	got := normalizeArgs([]string{"-V", "-H", "-s", "sel.txt", "-Q", "D", "in.mseed"})
	require.Equal(t, []string{"-V", "-H", "-s", "sel.txt", "-Q", "D", "in.mseed"}, got)
}
