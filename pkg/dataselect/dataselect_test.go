package dataselect_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/mseed"
	"github.com/iamNilotpal/dataselect/pkg/dataselect"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

func buildRecord(t *testing.T) []byte {
	t.Helper()
	h := mseed.Header{
		Version: mseed.FormatV2, PubVersion: 1,
		Source:      model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"},
		StartTime:   0,
		SampleRate:  1,
		SampleCount: 3,
		Encoding:    mseed.EncodingInt32,
	}
	payload := mseed.EncodeSamples(mseed.Samples{Encoding: mseed.EncodingInt32, Int32: []int32{1, 2, 3}})
	return mseed.PackRecord(h, payload)
}

func TestNewInstance_RejectsEmptyInputs(t *testing.T) {
	_, err := dataselect.NewInstance(options.NewDefaultOptions(), zap.NewNop().Sugar(), nil)
	require.Error(t, err)
}

func TestInstance_RunProducesAReport(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.mseed")
	require.NoError(t, os.WriteFile(inPath, buildRecord(t), 0644))

	outPath := filepath.Join(dir, "out.mseed")
	opts := options.Apply(options.WithDefaultOptions(), options.WithOutput(outPath, false))

	inputs := []*model.FileRef{{
		DisplayName: "in.mseed", Path: inPath,
		ByteStart: -1, ByteEnd: -1,
		EarliestTime: model.NSTUnset, LatestTime: model.NSTUnset,
	}}

	inst, err := dataselect.NewInstance(opts, zap.NewNop().Sugar(), inputs)
	require.NoError(t, err)

	report, err := inst.Run()
	require.NoError(t, err)
	require.Len(t, report.Ingest, 1)
	require.Equal(t, 1, report.Ingest[0].RecordsAdmitted)
	require.Len(t, report.Summaries, 1)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.NotEmpty(t, written)
}
