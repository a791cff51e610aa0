package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/pkg/options"
)

func TestResolveOptions_AppliesBasicFlags(t *testing.T) {
	f := &cliFlags{timeTolerance: 2.5, pruneSample: true, splitHour: true, outputPath: "out.mseed"}
	opts, err := resolveOptions(f, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Equal(t, 2500*1e6, float64(opts.TimeTolerance.Nanoseconds()))
	require.Equal(t, options.PruneSample, opts.Prune)
	require.Equal(t, options.SplitHour, opts.Split)
	require.Equal(t, "out.mseed", opts.OutputPath)
	require.False(t, opts.OutputAppend)
}

func TestResolveOptions_RejectsOutputAndAppendOutputTogether(t *testing.T) {
	f := &cliFlags{outputPath: "a.mseed", appendOutput: "b.mseed"}
	_, err := resolveOptions(f, zap.NewNop().Sugar())
	require.Error(t, err)
}

func TestResolveOptions_ArchivePresetJoinsDirAndLayout(t *testing.T) {
	f := &cliFlags{chanDir: "/data/chan"}
	opts, err := resolveOptions(f, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Len(t, opts.Archives, 1)
	require.Equal(t, "/data/chan/%n.%s.%l.%c", opts.Archives[0].Template)
}

func TestResolveOptions_PruneModePriorityPrefersSampleOverRecord(t *testing.T) {
	f := &cliFlags{pruneSample: true, pruneRecord: true}
	opts, err := resolveOptions(f, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Equal(t, options.PruneSample, opts.Prune)
}
