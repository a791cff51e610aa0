// Package writer implements the Record Writer (spec.md §4.6): the
// regroup pass that flattens Segment-level RecordLists into one
// merge-sorted write list per SourceID, and the emit pass that reads each
// surviving record's bytes back off disk, trims it if needed, re-stamps
// its publication version if requested, and fans it out to every
// configured sink.
package writer

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/archive"
	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/mseed"
	"github.com/iamNilotpal/dataselect/internal/sortlist"
	"github.com/iamNilotpal/dataselect/internal/tracelist"
	"github.com/iamNilotpal/dataselect/pkg/errors"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

// Group is one SourceID's flattened, not-yet-sorted write list: every
// contributing Record across every Segment of every TraceID sharing that
// SourceID (ignoring pub-version), per spec.md §4.6's Regroup step.
type Group struct {
	Source  model.SourceID
	Records []model.RecordID
}

// Regroup walks tl in TraceList order and flattens consecutive TraceIDs
// sharing a SourceID into one Group each, omitting non-contributing
// records as it goes. After this call every Segment's RecordList is
// logically empty: nothing downstream walks Segment.Head/Tail again.
func Regroup(tl *tracelist.TraceList) []Group {
	var groups []Group

	for _, trace := range tl.Traces {
		var records []model.RecordID
		for _, seg := range trace.Segments {
			tl.Arena.Walk(seg, func(id model.RecordID, rec *model.Record) bool {
				if rec.Contributing() {
					records = append(records, id)
				}
				return true
			})
			seg.Head, seg.Tail = model.RecordNone, model.RecordNone
		}

		if len(groups) > 0 && groups[len(groups)-1].Source == trace.Source {
			groups[len(groups)-1].Records = append(groups[len(groups)-1].Records, records...)
			continue
		}
		groups = append(groups, Group{Source: trace.Source, Records: records})
	}

	return groups
}

// recordLinks adapts a model.RecordArena's Next field to sortlist.Links,
// letting the generic merge sort operate on the same doubly-linked
// representation the Trace View already maintains.
type recordLinks struct{ arena *model.RecordArena }

func (l recordLinks) Next(id model.RecordID) model.RecordID { return l.arena.Get(id).Next }
func (l recordLinks) SetNext(id, next model.RecordID)       { l.arena.Get(id).Next = next }

// sortGroup builds a temporary singly-linked list out of g.Records (via
// the arena's Next field) and merge-sorts it by effective start time,
// returning the sorted RecordID slice. Ties preserve g.Records order
// (sortlist.Merge's stability).
func sortGroup(arena *model.RecordArena, g Group) []model.RecordID {
	if len(g.Records) == 0 {
		return nil
	}
	for i, id := range g.Records {
		next := model.RecordNone
		if i+1 < len(g.Records) {
			next = g.Records[i+1]
		}
		arena.Get(id).Next = next
	}

	links := recordLinks{arena: arena}
	head := sortlist.Merge(g.Records[0], model.RecordNone, links, func(a, b model.RecordID) bool {
		return arena.Get(a).EffectiveStart() < arena.Get(b).EffectiveStart()
	})

	var out []model.RecordID
	for id := head; id != model.RecordNone; id = arena.Get(id).Next {
		out = append(out, id)
	}
	return out
}

// Summary is one emitted SourceID group's accounting line for the modification
// summary (spec.md §6): `SOURCEID|PUBVER|STARTTIME|ENDTIME|BYTES_WRITTEN|
// SAMPLE_COUNT`, accumulated per SourceID group.
type Summary struct {
	Source       model.SourceID
	PubVersion   int
	Start, End   model.NSTime
	BytesWritten int64
	SampleCount  int64
}

// Writer owns every output sink for one run and the lazily-opened input
// file handles records are read back from.
type Writer struct {
	arena *model.RecordArena
	opts  options.Options
	log   *zap.SugaredLogger

	output     *os.File
	archives   []*archive.Mux
	inputFiles map[*model.FileRef]*os.File
	buf        []byte

	Summaries []Summary
}

// New builds a Writer. output may be nil to disable the single-file sink.
func New(arena *model.RecordArena, opts options.Options, log *zap.SugaredLogger, output *os.File, archives []*archive.Mux) *Writer {
	return &Writer{
		arena:      arena,
		opts:       opts,
		log:        log,
		output:     output,
		archives:   archives,
		inputFiles: make(map[*model.FileRef]*os.File),
		buf:        make([]byte, opts.MaxRecordLength),
	}
}

// Close releases every lazily-opened input file handle.
func (w *Writer) Close() error {
	var errs error
	for ref, f := range w.inputFiles {
		if err := f.Close(); err != nil {
			errs = multierr.Append(errs, errors.ClassifySyncError(err, ref.DisplayName, ref.Path, 0))
		}
		delete(w.inputFiles, ref)
	}
	return errs
}

// Emit runs the write pass (spec.md §4.6's "Emit") over g, sorting it and
// streaming its surviving records to every configured sink. A genuine
// codec trim failure degrades by emitting the untrimmed buffer for that
// record and then abandoning the rest of g (data is corrupt past this
// point); other issues are aggregated via multierr as non-fatal warnings
// rather than aborting the run.
func (w *Writer) Emit(g Group) error {
	sorted := sortGroup(w.arena, g)

	var warnings error
	summary := Summary{Source: g.Source, Start: model.NSTUnset, End: model.NSTUnset}

	for _, id := range sorted {
		rec := w.arena.Get(id)
		if !rec.Contributing() {
			continue
		}

		buf, err := w.readRecord(rec)
		if err != nil {
			warnings = multierr.Append(warnings, err)
			continue
		}

		emitBuf := buf
		if !rec.Trim.Unset() {
			result, trimmed, terr := mseed.Trim(rec.File.DisplayName, rec.Offset, buf, rec.Trim.NewStart, rec.Trim.NewEnd)
			switch {
			case terr != nil:
				warnings = multierr.Append(warnings, terr)
				if werr := w.writeToSinks(g.Source, rec, buf); werr != nil {
					warnings = multierr.Append(warnings, werr)
				}
				w.Summaries = append(w.Summaries, summary)
				return warnings
			case result == mseed.TrimSkip:
				continue
			case result == mseed.TrimUnsupported:
				// Not an error: emit the original record untouched.
			case result == mseed.TrimApplied:
				emitBuf = trimmed
			}
		}

		if w.opts.QualityOverride != "" {
			emitBuf = applyQualityOverride(emitBuf, w.opts.QualityOverride)
		}

		if err := w.writeToSinks(g.Source, rec, emitBuf); err != nil {
			warnings = multierr.Append(warnings, err)
			continue
		}

		es, ee := rec.Effective()
		if !summary.Start.IsSet() || es < summary.Start {
			summary.Start = es
		}
		if !summary.End.IsSet() || ee > summary.End {
			summary.End = ee
		}
		summary.BytesWritten += int64(len(emitBuf))
		summary.PubVersion = rec.PubVersion
		if h, _, herr := mseed.ParseHeader(rec.File.DisplayName, rec.Offset, emitBuf); herr == nil {
			summary.SampleCount += int64(h.SampleCount)
		}

		rec.File.BytesWritten += int64(len(emitBuf))
		if !rec.File.EarliestTime.IsSet() || rec.StartTime < rec.File.EarliestTime {
			rec.File.EarliestTime = rec.StartTime
		}
		if !rec.File.LatestTime.IsSet() || rec.EndTime > rec.File.LatestTime {
			rec.File.LatestTime = rec.EndTime
		}
	}

	w.Summaries = append(w.Summaries, summary)
	return warnings
}

// readRecord resolves rec's origin FileRef, opening it for reading on
// first use, seeks to rec.Offset, and reads exactly RecLen bytes into
// the shared record buffer (spec.md §5: one buffer, re-entry forbidden).
func (w *Writer) readRecord(rec *model.Record) ([]byte, error) {
	f, ok := w.inputFiles[rec.File]
	if !ok {
		var err error
		f, err = os.Open(rec.File.Path)
		if err != nil {
			return nil, errors.ClassifyFileOpenError(err, rec.File.Path, rec.File.DisplayName)
		}
		w.inputFiles[rec.File] = f
	}

	if cap(w.buf) < rec.RecLen {
		w.buf = make([]byte, rec.RecLen)
	}
	buf := w.buf[:rec.RecLen]

	if _, err := f.Seek(rec.Offset, io.SeekStart); err != nil {
		return nil, errors.NewIOError(err, errors.ErrorCodeIO, "failed to seek to record offset").
			WithFileName(rec.File.DisplayName).WithPath(rec.File.Path).WithOffset(rec.Offset)
	}
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, errors.NewIOError(err, errors.ErrorCodeIO, "failed to read record bytes").
			WithFileName(rec.File.DisplayName).WithPath(rec.File.Path).WithOffset(rec.Offset)
	}

	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// writeToSinks fans data out to the single-file sink (if configured) and
// every archive Mux.
func (w *Writer) writeToSinks(source model.SourceID, rec *model.Record, data []byte) error {
	var errs error

	if w.output != nil {
		if _, err := w.output.Write(data); err != nil {
			errs = multierr.Append(errs, errors.ClassifySyncError(err, filepath.Base(w.opts.OutputPath), w.opts.OutputPath, rec.Offset))
		}
	}

	if len(w.archives) > 0 {
		v := valuesFor(source, rec)
		for _, mux := range w.archives {
			if err := mux.Write(v, data); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}

	return errs
}

// applyQualityOverride parses quality as either a legacy quality letter
// (R/D/Q/M, the inverse of archive.Values.qualityLetter's mapping) or a
// decimal publication version, and re-stamps buf's packed publication
// version in place (spec.md §4.6 step 4). An unrecognized letter or
// non-numeric value leaves buf untouched.
func applyQualityOverride(buf []byte, quality string) []byte {
	version, ok := parseQualityOverride(quality)
	if !ok {
		return buf
	}
	return mseed.RestampPubVersion(buf, version)
}

func parseQualityOverride(quality string) (int, bool) {
	switch quality {
	case "R":
		return 1, true
	case "D":
		return 2, true
	case "Q":
		return 3, true
	case "M":
		return 4, true
	}

	n := 0
	for _, r := range quality {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if quality == "" {
		return 0, false
	}
	return n, true
}

func valuesFor(source model.SourceID, rec *model.Record) archive.Values {
	start, _ := rec.Effective()
	return archive.Values{
		Source:     source,
		PubVersion: rec.PubVersion,
		RecLen:     rec.RecLen,
		SampleRate: rec.SampleRate,
		Time:       time.Unix(0, int64(start)).UTC(),
	}
}
