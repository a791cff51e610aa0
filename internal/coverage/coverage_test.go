package coverage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/dataselect/internal/coverage"
	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/tracelist"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

func sec(n int64) model.NSTime { return model.NSTime(n * int64(model.NanosecondsPerSecond)) }

func TestFind_HigherPubVersionOutranksLowerOnOverlap(t *testing.T) {
	arena := model.NewRecordArena(8)
	tl := tracelist.New(arena, nil, options.NewDefaultOptions().SampleRateTolerance, 0)

	source := model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"}

	unsetTrim := model.TrimBound{NewStart: model.NSTUnset, NewEnd: model.NSTUnset}
	unsetSelect := model.SelectBound{Start: model.NSTUnset, End: model.NSTUnset}

	lowSeg, _, _ := tl.AddRecord(source, 1, model.Record{
		StartTime: sec(0), EndTime: sec(10), SampleRate: 1, RecLen: 512,
		Trim: unsetTrim, Select: unsetSelect,
	}, 10)
	highSeg, _, _ := tl.AddRecord(source, 2, model.Record{
		StartTime: sec(2), EndTime: sec(8), SampleRate: 1, RecLen: 512,
		Trim: unsetTrim, Select: unsetSelect,
	}, 6)

	cov := coverage.Find(tl, source, 1, lowSeg, true, 0.0001, sec(0)+model.NSTime(500_000_000))
	require.Len(t, cov, 1)
	require.Equal(t, sec(2), cov[0].Start)
	require.Equal(t, sec(8), cov[0].End)
	require.Equal(t, 2, cov[0].PubVersion)

	// The higher version segment sees no coverage from the lower one.
	covHigh := coverage.Find(tl, source, 2, highSeg, true, 0.0001, sec(0)+model.NSTime(500_000_000))
	require.Empty(t, covHigh)
}

func TestFind_TieBreakFavorsPeerOnEqualLength(t *testing.T) {
	arena := model.NewRecordArena(8)
	tl := tracelist.New(arena, nil, 0.0001, 0)

	source := model.SourceID{Network: "XX", Station: "BBB", Channel: "BHZ"}

	target, _, _ := tl.AddRecord(source, 1, model.Record{
		StartTime: sec(0), EndTime: sec(10), SampleRate: 1, RecLen: 512,
	}, 10)
	_, _, _ = tl.AddRecord(source, 1, model.Record{
		StartTime: sec(0), EndTime: sec(10), SampleRate: 1, RecLen: 512,
	}, 10)

	// Same pub version, exact same length as target: the later-added peer
	// Segment outranks target under the adopted >= tie-break.
	cov := coverage.Find(tl, source, 1, target, true, 0.0001, model.NSTime(500_000_000))
	require.Len(t, cov, 1)
}

func TestFind_NoOverlapYieldsEmptyCoverage(t *testing.T) {
	arena := model.NewRecordArena(8)
	tl := tracelist.New(arena, nil, 0.0001, 0)

	source := model.SourceID{Network: "XX", Station: "CCC", Channel: "BHZ"}

	target, _, _ := tl.AddRecord(source, 1, model.Record{
		StartTime: sec(0), EndTime: sec(10), SampleRate: 1, RecLen: 512,
	}, 10)
	_, _, _ = tl.AddRecord(source, 2, model.Record{
		StartTime: sec(100), EndTime: sec(110), SampleRate: 1, RecLen: 512,
	}, 10)

	cov := coverage.Find(tl, source, 1, target, true, 0.0001, model.NSTime(500_000_000))
	require.Empty(t, cov)
}
