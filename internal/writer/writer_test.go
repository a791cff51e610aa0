package writer_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/archive"
	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/mseed"
	"github.com/iamNilotpal/dataselect/internal/tracelist"
	"github.com/iamNilotpal/dataselect/internal/writer"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

func sec(n int64) model.NSTime { return model.NSTime(n * int64(model.NanosecondsPerSecond)) }

// packedRecord builds one on-wire record for samples starting at start at
// 1 sample/sec, returning its bytes.
func packedRecord(t *testing.T, pubVersion int, start model.NSTime, samples []int32) []byte {
	t.Helper()
	h := mseed.Header{
		Version:     mseed.FormatV2,
		PubVersion:  pubVersion,
		Source:      model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"},
		StartTime:   start,
		SampleRate:  1,
		SampleCount: uint32(len(samples)),
		Encoding:    mseed.EncodingInt32,
	}
	payload := mseed.EncodeSamples(mseed.Samples{Encoding: mseed.EncodingInt32, Int32: samples})
	return mseed.PackRecord(h, payload)
}

// writeInputFile concatenates recs into one file on disk and returns a
// FileRef plus each record's byte offset.
func writeInputFile(t *testing.T, recs [][]byte) (*model.FileRef, []int64) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.mseed")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	offsets := make([]int64, len(recs))
	var off int64
	for i, r := range recs {
		offsets[i] = off
		_, err := f.Write(r)
		require.NoError(t, err)
		off += int64(len(r))
	}
	return &model.FileRef{DisplayName: "input.mseed", Path: path, EarliestTime: model.NSTUnset, LatestTime: model.NSTUnset}, offsets
}

func TestRegroup_FlattensSegmentsBySourceIgnoringPubVersion(t *testing.T) {
	arena := model.NewRecordArena(4)

	segA := &model.Segment{StartTime: sec(0), EndTime: sec(5), Head: model.RecordNone, Tail: model.RecordNone}
	arena.Append(segA, model.Record{StartTime: sec(0), EndTime: sec(5), RecLen: 256})

	segB := &model.Segment{StartTime: sec(10), EndTime: sec(15), Head: model.RecordNone, Tail: model.RecordNone}
	arena.Append(segB, model.Record{StartTime: sec(10), EndTime: sec(15), RecLen: 256})

	source := model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"}
	tl := &tracelist.TraceList{
		Arena: arena,
		Traces: []*model.TraceID{
			{Source: source, PubVersion: 1, Segments: []*model.Segment{segA}},
			{Source: source, PubVersion: 2, Segments: []*model.Segment{segB}},
		},
	}

	groups := writer.Regroup(tl)
	require.Len(t, groups, 1)
	require.Equal(t, source, groups[0].Source)
	require.Len(t, groups[0].Records, 2)
	require.Equal(t, model.RecordNone, segA.Head)
	require.Equal(t, model.RecordNone, segB.Head)
}

func TestEmit_WritesRecordsInSortedOrderToOutputFile(t *testing.T) {
	recA := packedRecord(t, 1, sec(10), []int32{4, 5})
	recB := packedRecord(t, 1, sec(0), []int32{1, 2, 3})
	ref, offsets := writeInputFile(t, [][]byte{recA, recB})

	arena := model.NewRecordArena(2)
	unsetTrim := model.TrimBound{NewStart: model.NSTUnset, NewEnd: model.NSTUnset}
	unsetSelect := model.SelectBound{Start: model.NSTUnset, End: model.NSTUnset}
	idA := arena.Alloc(model.Record{File: ref, Offset: offsets[0], RecLen: len(recA), StartTime: sec(10), EndTime: sec(11), SampleRate: 1, PubVersion: 1, Trim: unsetTrim, Select: unsetSelect})
	idB := arena.Alloc(model.Record{File: ref, Offset: offsets[1], RecLen: len(recB), StartTime: sec(0), EndTime: sec(2), SampleRate: 1, PubVersion: 1, Trim: unsetTrim, Select: unsetSelect})

	outPath := filepath.Join(t.TempDir(), "out.mseed")
	out, err := os.Create(outPath)
	require.NoError(t, err)

	opts := options.Options{MaxRecordLength: 4096, OutputPath: outPath}
	log := zap.NewNop().Sugar()
	w := writer.New(arena, opts, log, out, nil)

	group := writer.Group{Source: ref_source(), Records: []model.RecordID{idA, idB}}
	require.NoError(t, w.Emit(group))
	require.NoError(t, out.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, append(append([]byte(nil), recB...), recA...), data)
}

func ref_source() model.SourceID {
	return model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"}
}

func TestEmit_TrimsAndAppliesQualityOverride(t *testing.T) {
	rec := packedRecord(t, 1, sec(0), []int32{10, 20, 30, 40, 50})
	ref, offsets := writeInputFile(t, [][]byte{rec})

	arena := model.NewRecordArena(1)
	id := arena.Alloc(model.Record{
		File: ref, Offset: offsets[0], RecLen: len(rec),
		StartTime: sec(0), EndTime: sec(4), SampleRate: 1, PubVersion: 1,
		Trim:   model.TrimBound{NewStart: sec(1), NewEnd: sec(3)},
		Select: model.SelectBound{Start: model.NSTUnset, End: model.NSTUnset},
	})

	dir := t.TempDir()
	tmpl, err := archive.Parse(filepath.Join(dir, "%n.%s.%c"))
	require.NoError(t, err)
	log := zap.NewNop().Sugar()
	mux := archive.NewMux(tmpl, 4, time.Minute, log)
	defer mux.CloseAll()

	opts := options.Options{MaxRecordLength: 4096, QualityOverride: "D"}
	w := writer.New(arena, opts, log, nil, []*archive.Mux{mux})

	group := writer.Group{Source: ref_source(), Records: []model.RecordID{id}}
	require.NoError(t, w.Emit(group))
	require.NoError(t, w.Close())

	out, err := os.ReadFile(filepath.Join(dir, "XX.AAA.BHZ"))
	require.NoError(t, err)

	h, headerLen, err := mseed.ParseHeader("XX.AAA.BHZ", 0, out)
	require.NoError(t, err)
	require.Equal(t, 2, h.PubVersion) // "D" -> 2

	decoded, err := mseed.DecodeSamples(h, out[headerLen:headerLen+int(h.DataLength)])
	require.NoError(t, err)
	require.Equal(t, []int32{20, 30, 40}, decoded.Int32)
}
