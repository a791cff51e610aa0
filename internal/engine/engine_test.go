package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/engine"
	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/mseed"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

func sec(n int64) model.NSTime { return model.NSTime(n * int64(model.NanosecondsPerSecond)) }

func buildRecord(t *testing.T, pubVersion int, start model.NSTime, samples []int32) []byte {
	t.Helper()
	h := mseed.Header{
		Version: mseed.FormatV2, PubVersion: pubVersion,
		Source:      model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"},
		StartTime:   start,
		SampleRate:  1,
		SampleCount: uint32(len(samples)),
		Encoding:    mseed.EncodingInt32,
	}
	payload := mseed.EncodeSamples(mseed.Samples{Encoding: mseed.EncodingInt32, Int32: samples})
	return mseed.PackRecord(h, payload)
}

func writeFile(t *testing.T, name string, records ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	for _, r := range records {
		_, err := f.Write(r)
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())
	return path
}

func ref(path, name string) *model.FileRef {
	return &model.FileRef{
		DisplayName: name, Path: path,
		ByteStart: -1, ByteEnd: -1,
		EarliestTime: model.NSTUnset, LatestTime: model.NSTUnset,
	}
}

func TestRun_WritesSurvivorsAndReportsCounts(t *testing.T) {
	recA := buildRecord(t, 1, sec(0), []int32{1, 2, 3})
	recB := buildRecord(t, 1, sec(3), []int32{4, 5})
	path := writeFile(t, "in.mseed", recA, recB)

	outPath := filepath.Join(t.TempDir(), "out.mseed")
	opts := options.Apply(options.WithDefaultOptions(), options.WithOutput(outPath, false))

	eng, err := engine.New(&engine.Config{
		Options: opts,
		Logger:  zap.NewNop().Sugar(),
		Inputs:  []*model.FileRef{ref(path, "in.mseed")},
	})
	require.NoError(t, err)

	report, err := eng.Run()
	require.NoError(t, err)

	require.Len(t, report.Ingest, 1)
	require.Equal(t, 2, report.Ingest[0].RecordsRead)
	require.Equal(t, 2, report.Ingest[0].RecordsAdmitted)
	require.Len(t, report.Summaries, 1)
	require.Equal(t, sec(0), report.Summaries[0].Start)
	require.Equal(t, sec(4), report.Summaries[0].End)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.NotEmpty(t, written)
}

func TestRun_PrunesLowerPublicationVersionWhenFullyCovered(t *testing.T) {
	loVersion := buildRecord(t, 1, sec(0), []int32{1, 2, 3, 4, 5})
	hiVersion := buildRecord(t, 2, sec(0), []int32{10, 20, 30, 40, 50})
	path := writeFile(t, "in.mseed", loVersion, hiVersion)

	outPath := filepath.Join(t.TempDir(), "out.mseed")
	opts := options.Apply(
		options.WithDefaultOptions(),
		options.WithOutput(outPath, false),
		options.WithPruneMode(options.PruneRecord),
	)

	eng, err := engine.New(&engine.Config{
		Options: opts,
		Logger:  zap.NewNop().Sugar(),
		Inputs:  []*model.FileRef{ref(path, "in.mseed")},
	})
	require.NoError(t, err)

	report, err := eng.Run()
	require.NoError(t, err)
	require.Len(t, report.Summaries, 1)
	require.Equal(t, 2, report.Summaries[0].PubVersion)
}

func TestRun_RejectsSecondRunOnSameEngine(t *testing.T) {
	rec := buildRecord(t, 1, sec(0), []int32{1, 2, 3})
	path := writeFile(t, "in.mseed", rec)

	opts := options.Apply(options.WithDefaultOptions(), options.WithOutput(filepath.Join(t.TempDir(), "out.mseed"), false))
	eng, err := engine.New(&engine.Config{
		Options: opts,
		Logger:  zap.NewNop().Sugar(),
		Inputs:  []*model.FileRef{ref(path, "in.mseed")},
	})
	require.NoError(t, err)

	_, err = eng.Run()
	require.NoError(t, err)

	_, err = eng.Run()
	require.ErrorIs(t, err, engine.ErrEngineClosed)
}

func TestNew_RejectsEmptyInputs(t *testing.T) {
	_, err := engine.New(&engine.Config{Options: options.NewDefaultOptions(), Logger: zap.NewNop().Sugar()})
	require.Error(t, err)
}
