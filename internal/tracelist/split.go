package tracelist

import (
	"time"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

// SplitAtBoundaries implements the Trace View's boundary-split option
// (SPEC_FULL.md §4.2): if granularity is day/hour/minute and rec crosses
// the next such boundary, it returns two or more Record values covering
// the same original bytes with back-to-back TrimBounds — the first
// ending at boundary-1ns, the next starting at boundary, and so on. A
// record that does not cross a boundary, or when granularity is
// options.SplitNone, is returned unchanged as a single-element slice.
//
// Splitting is purely an output-shape directive: the Record's Offset and
// RecLen are untouched, and no samples are re-timed — only TrimBound is
// set, exactly like any other trim.
func SplitAtBoundaries(rec model.Record, granularity options.SplitGranularity) []model.Record {
	if granularity == options.SplitNone {
		return []model.Record{rec}
	}

	var out []model.Record
	cur := rec
	for {
		boundary, ok := nextBoundary(cur.EffectiveStart(), granularity)
		_, end := cur.Effective()
		if !ok || boundary > end {
			out = append(out, cur)
			return out
		}

		head := cur
		head.Trim.NewEnd = boundary - 1
		out = append(out, head)

		cur.Trim.NewStart = boundary
	}
}

// nextBoundary returns the next granularity boundary strictly after t, and
// whether one exists within the representable range.
func nextBoundary(t model.NSTime, granularity options.SplitGranularity) (model.NSTime, bool) {
	tm := time.Unix(0, int64(t)).UTC()

	var next time.Time
	switch granularity {
	case options.SplitDay:
		y, m, d := tm.Date()
		next = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	case options.SplitHour:
		y, m, d := tm.Date()
		next = time.Date(y, m, d, tm.Hour(), 0, 0, 0, time.UTC).Add(time.Hour)
	case options.SplitMinute:
		y, m, d := tm.Date()
		next = time.Date(y, m, d, tm.Hour(), tm.Minute(), 0, 0, time.UTC).Add(time.Minute)
	default:
		return 0, false
	}
	return model.NSTime(next.UnixNano()), true
}
