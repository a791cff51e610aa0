// Package ingest implements the Record Index ingest pass (spec.md §4.1):
// it walks one input file's bytes record-by-record, classifies each
// record's admission via the Selection Filter, and feeds admitted records
// into the Trace View.
package ingest

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/mseed"
	"github.com/iamNilotpal/dataselect/internal/selection"
	"github.com/iamNilotpal/dataselect/internal/tracelist"
	"github.com/iamNilotpal/dataselect/pkg/errors"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

// Result tallies one file's ingest pass, for the run-level log summary.
type Result struct {
	RecordsRead     int
	RecordsAdmitted int
	RecordsRejected int
	BytesSkipped    int64
}

// File reads ref's byte range record-by-record, parsing each header with
// internal/mseed, testing admission with filter, applying the Trace
// View's boundary-split option, and adding every admitted (possibly
// split) record to tl. A parse failure is fatal unless skipNotData is
// set, in which case ingest resynchronizes by scanning forward one byte
// at a time for the next header that parses cleanly (spec.md §6's -snd).
func File(
	tl *tracelist.TraceList,
	filter *selection.Filter,
	ref *model.FileRef,
	split options.SplitGranularity,
	skipNotData bool,
	maxRecordLength int,
	log *zap.SugaredLogger,
) (Result, error) {
	f, err := os.Open(ref.Path)
	if err != nil {
		return Result{}, errors.ClassifyFileOpenError(err, ref.Path, ref.DisplayName)
	}
	defer f.Close()

	size, end, err := fileRange(f, ref)
	if err != nil {
		return Result{}, err
	}

	offset := ref.ByteStart
	if offset < 0 {
		offset = 0
	}

	buf := make([]byte, maxRecordLength)
	var res Result

	for offset < end {
		want := maxRecordLength
		if remain := end - offset; int64(want) > remain {
			want = int(remain)
		}

		n, rerr := f.ReadAt(buf[:want], offset)
		if n == 0 {
			if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
				break
			}
			return res, errors.NewIOError(rerr, errors.ErrorCodeIO, "failed to read input file").
				WithFileName(ref.DisplayName).WithPath(ref.Path).WithOffset(offset)
		}

		h, headerLen, perr := mseed.ParseHeader(ref.DisplayName, offset, buf[:n])
		if perr != nil {
			if !skipNotData {
				return res, perr
			}
			log.Warnw("skipping unparsable data", "file", ref.DisplayName, "offset", offset, "error", perr)
			res.BytesSkipped++
			offset++
			continue
		}

		recLen := headerLen + int(h.DataLength)
		res.RecordsRead++

		start, endTime := h.StartTime, h.EndTime()
		admit, bound, warning := filter.Keep(h.Source, start, endTime)
		if warning != "" {
			log.Warnw(warning, "file", ref.DisplayName, "offset", offset)
		}
		if !admit {
			res.RecordsRejected++
			offset += int64(recLen)
			continue
		}

		trim := filter.DeriveTrimBound(bound, start, endTime)
		rec := model.Record{
			File: ref, Offset: offset, RecLen: recLen,
			StartTime: start, EndTime: endTime,
			PubVersion: h.PubVersion, SampleRate: h.SampleRate,
			Encoding: h.Encoding.String(),
			Trim:     trim, Select: bound,
		}

		for i, part := range tracelist.SplitAtBoundaries(rec, split) {
			sampleCount := int64(0)
			if i == 0 {
				sampleCount = int64(h.SampleCount)
			}
			tl.AddRecord(h.Source, h.PubVersion, part, sampleCount)
		}

		res.RecordsAdmitted++
		offset += int64(recLen)
	}

	_ = size
	return res, nil
}

// fileRange resolves ref's effective [start, end) byte range against the
// file's actual size.
func fileRange(f *os.File, ref *model.FileRef) (size, end int64, err error) {
	info, err := f.Stat()
	if err != nil {
		return 0, 0, errors.NewIOError(err, errors.ErrorCodeIO, "failed to stat input file").
			WithFileName(ref.DisplayName).WithPath(ref.Path)
	}
	size = info.Size()
	end = size
	if ref.ByteEnd >= 0 && ref.ByteEnd < size {
		end = ref.ByteEnd
	}
	return size, end, nil
}
