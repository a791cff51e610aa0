package selection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/selection"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

func sec(n int64) model.NSTime { return model.NSTime(n * int64(model.NanosecondsPerSecond)) }

func aaa() model.SourceID {
	return model.SourceID{Network: "XX", Station: "AAA", Location: "", Channel: "BHZ"}
}

func TestKeep_AdmitsEverythingWithNoFiltersConfigured(t *testing.T) {
	f, err := selection.New(options.NewDefaultOptions())
	require.NoError(t, err)

	admit, bound, warning := f.Keep(aaa(), sec(0), sec(10))
	require.True(t, admit)
	require.Empty(t, warning)
	require.False(t, bound.Start.IsSet())
	require.False(t, bound.End.IsSet())
}

func TestKeep_RejectsRecordsOutsideGlobalTimeWindow(t *testing.T) {
	opts := options.Apply(options.WithTimeWindow(
		time.Unix(0, int64(sec(100))).UTC(),
		time.Unix(0, int64(sec(200))).UTC(),
	))
	f, err := selection.New(opts)
	require.NoError(t, err)

	admit, _, _ := f.Keep(aaa(), sec(0), sec(10))
	require.False(t, admit)

	admit, _, _ = f.Keep(aaa(), sec(150), sec(160))
	require.True(t, admit)
}

func TestKeep_SourceGlobRejectsNonMatchingSourceID(t *testing.T) {
	opts := options.Apply(options.WithSourceMatch("XX.AAA.*.BHZ"))
	f, err := selection.New(opts)
	require.NoError(t, err)

	admit, _, _ := f.Keep(aaa(), sec(0), sec(10))
	require.True(t, admit)

	other := model.SourceID{Network: "XX", Station: "ZZZ", Channel: "BHZ"}
	admit, _, _ = f.Keep(other, sec(0), sec(10))
	require.False(t, admit)
}

func TestKeep_RejectExprOverridesMatchExpr(t *testing.T) {
	opts := options.Apply(
		options.WithMatchExpr(`XX\.AAA\..*`),
		options.WithRejectExpr(`XX\.AAA\.\.BHZ`),
	)
	f, err := selection.New(opts)
	require.NoError(t, err)

	admit, _, _ := f.Keep(aaa(), sec(0), sec(10))
	require.False(t, admit)
}

func TestKeep_SelectionFileNarrowsBoundAndRejectsNonMatchingRecord(t *testing.T) {
	opts := options.Apply(options.WithSelections([]options.Selection{
		{
			Network: "XX", Station: "AAA", Location: "--", Channel: "BHZ",
			Start: time.Unix(0, int64(sec(2))).UTC(),
			End:   time.Unix(0, int64(sec(8))).UTC(),
		},
	}))
	f, err := selection.New(opts)
	require.NoError(t, err)

	admit, bound, warning := f.Keep(aaa(), sec(0), sec(10))
	require.True(t, admit)
	require.Empty(t, warning)
	require.Equal(t, sec(2), bound.Start)
	require.Equal(t, sec(8), bound.End)

	other := model.SourceID{Network: "XX", Station: "ZZZ", Channel: "BHZ"}
	admit, _, _ = f.Keep(other, sec(0), sec(10))
	require.False(t, admit)
}

func TestKeep_DisjointSelectionWindowsWarnAndClearBound(t *testing.T) {
	opts := options.Apply(options.WithSelections([]options.Selection{
		{
			Network: "XX", Station: "AAA", Channel: "BHZ",
			Start: time.Unix(0, int64(sec(0))).UTC(), End: time.Unix(0, int64(sec(2))).UTC(),
		},
		{
			Network: "XX", Station: "AAA", Channel: "BHZ",
			Start: time.Unix(0, int64(sec(5))).UTC(), End: time.Unix(0, int64(sec(9))).UTC(),
		},
	}))
	f, err := selection.New(opts)
	require.NoError(t, err)

	admit, bound, warning := f.Keep(aaa(), sec(0), sec(10))
	require.True(t, admit)
	require.NotEmpty(t, warning)
	require.False(t, bound.Start.IsSet())
	require.False(t, bound.End.IsSet())
}

func TestDeriveTrimBound_IntersectsGlobalAndSelectWindows(t *testing.T) {
	opts := options.Apply(
		options.WithTimeWindow(time.Unix(0, int64(sec(1))).UTC(), time.Time{}),
		options.WithSelections([]options.Selection{
			{Network: "XX", Station: "AAA", Channel: "BHZ", End: time.Unix(0, int64(sec(8))).UTC()},
		}),
	)
	f, err := selection.New(opts)
	require.NoError(t, err)

	_, bound, _ := f.Keep(aaa(), sec(0), sec(10))
	trim := f.DeriveTrimBound(bound, sec(0), sec(10))

	require.Equal(t, sec(1), trim.NewStart)
	require.Equal(t, sec(8), trim.NewEnd)
}

func TestDeriveTrimBound_LeavesUnsetWhenBoundsCoverTheWholeRecord(t *testing.T) {
	f, err := selection.New(options.NewDefaultOptions())
	require.NoError(t, err)

	trim := f.DeriveTrimBound(model.SelectBound{Start: model.NSTUnset, End: model.NSTUnset}, sec(0), sec(10))
	require.False(t, trim.NewStart.IsSet())
	require.False(t, trim.NewEnd.IsSet())
}
