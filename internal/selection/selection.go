// Package selection implements the Selection Filter (SPEC_FULL.md §4.3):
// the ingest-time test deciding whether a record is kept, and the
// SelectBound/TrimBound derivation for records partially covered by a
// selection window or the global time bounds.
package selection

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

// Filter holds the compiled/parsed form of every selection-related flag:
// global time bounds, the glob and legacy regex SourceID filters, and the
// selection-file entries.
type Filter struct {
	GlobalStart, GlobalEnd model.NSTime // model.NSTUnset if unbounded

	sourceGlob   string
	matchExpr    *regexp.Regexp
	rejectExpr   *regexp.Regexp
	selections   []options.Selection
}

// New compiles a Filter from run options. An empty SourceMatch/MatchExpr/
// RejectExpr disables that test.
func New(opts options.Options) (*Filter, error) {
	f := &Filter{
		GlobalStart: timeOrUnset(opts.StartTime),
		GlobalEnd:   timeOrUnset(opts.EndTime),
		sourceGlob:  opts.SourceMatch,
		selections:  opts.Selections,
	}

	if opts.MatchExpr != "" {
		re, err := regexp.Compile(opts.MatchExpr)
		if err != nil {
			return nil, err
		}
		f.matchExpr = re
	}
	if opts.RejectExpr != "" {
		re, err := regexp.Compile(opts.RejectExpr)
		if err != nil {
			return nil, err
		}
		f.rejectExpr = re
	}

	return f, nil
}

func timeOrUnset(t time.Time) model.NSTime {
	if t.IsZero() {
		return model.NSTUnset
	}
	return model.NSTime(t.UnixNano())
}

// Keep applies the admission tests of SPEC_FULL.md §4.3. It returns
// whether the record should be admitted at all, and if so, the
// SelectBound (possibly Unset) carrying the effective intersection of
// every matching selection window, or a warning if a new match would make
// the SelectBound disjoint from a prior one.
func (f *Filter) Keep(source model.SourceID, start, end model.NSTime) (admit bool, bound model.SelectBound, warning string) {
	if f.GlobalStart.IsSet() && end < f.GlobalStart {
		return false, model.SelectBound{}, ""
	}
	if f.GlobalEnd.IsSet() && start > f.GlobalEnd {
		return false, model.SelectBound{}, ""
	}

	id := source.String()

	if f.sourceGlob != "" && !globMatch(wrapSubstring(f.sourceGlob), id) {
		return false, model.SelectBound{}, ""
	}
	if f.matchExpr != nil && !f.matchExpr.MatchString(id) {
		return false, model.SelectBound{}, ""
	}
	if f.rejectExpr != nil && f.rejectExpr.MatchString(id) {
		return false, model.SelectBound{}, ""
	}

	bound = model.SelectBound{Start: model.NSTUnset, End: model.NSTUnset}

	if len(f.selections) == 0 {
		return true, bound, ""
	}

	matched := false
	for _, sel := range f.selections {
		if !selectionMatchesSource(sel, source) {
			continue
		}
		selStart, selEnd := model.NSTUnset, model.NSTUnset
		if !sel.Start.IsZero() {
			selStart = model.NSTime(sel.Start.UnixNano())
		}
		if !sel.End.IsZero() {
			selEnd = model.NSTime(sel.End.UnixNano())
		}
		if selStart.IsSet() && end < selStart {
			continue
		}
		if selEnd.IsSet() && start > selEnd {
			continue
		}

		newBound := model.SelectBound{Start: selStart, End: selEnd}
		if !matched {
			bound = newBound
			matched = true
			continue
		}

		merged, ok := intersectBounds(bound, newBound)
		if !ok {
			return true, model.SelectBound{Start: model.NSTUnset, End: model.NSTUnset},
				"selection windows for " + id + " are disjoint; selection bound cleared for this record"
		}
		bound = merged
	}

	if !matched {
		return false, model.SelectBound{}, ""
	}

	return true, bound, ""
}

// DeriveTrimBound computes the TrimBound induced by combining a record's
// SelectBound with the global start/end (SPEC_FULL.md §4.3): new_start =
// max(global_start, select_start) if that value strictly lies inside the
// record, and analogously for new_end. It does not look at the prune mode,
// and ingest applies the result to every admitted record under every
// prune mode, not only sample-level or edges-only pruning.
func (f *Filter) DeriveTrimBound(bound model.SelectBound, recStart, recEnd model.NSTime) model.TrimBound {
	trim := model.TrimBound{NewStart: model.NSTUnset, NewEnd: model.NSTUnset}

	candStart := model.NSTUnset
	if f.GlobalStart.IsSet() {
		candStart = f.GlobalStart
	}
	if bound.Start.IsSet() && (!candStart.IsSet() || bound.Start > candStart) {
		candStart = bound.Start
	}
	if candStart.IsSet() && candStart > recStart && candStart < recEnd {
		trim.NewStart = candStart
	}

	candEnd := model.NSTUnset
	if f.GlobalEnd.IsSet() {
		candEnd = f.GlobalEnd
	}
	if bound.End.IsSet() && (!candEnd.IsSet() || bound.End < candEnd) {
		candEnd = bound.End
	}
	if candEnd.IsSet() && candEnd < recEnd && candEnd > recStart {
		trim.NewEnd = candEnd
	}

	return trim
}

func intersectBounds(a, b model.SelectBound) (model.SelectBound, bool) {
	out := model.SelectBound{Start: model.NSTUnset, End: model.NSTUnset}

	switch {
	case a.Start.IsSet() && b.Start.IsSet():
		if a.Start > b.Start {
			out.Start = a.Start
		} else {
			out.Start = b.Start
		}
	case a.Start.IsSet():
		out.Start = a.Start
	case b.Start.IsSet():
		out.Start = b.Start
	}

	switch {
	case a.End.IsSet() && b.End.IsSet():
		if a.End < b.End {
			out.End = a.End
		} else {
			out.End = b.End
		}
	case a.End.IsSet():
		out.End = a.End
	case b.End.IsSet():
		out.End = b.End
	}

	if out.Start.IsSet() && out.End.IsSet() && out.Start > out.End {
		return model.SelectBound{}, false
	}
	return out, true
}

func selectionMatchesSource(sel options.Selection, source model.SourceID) bool {
	return globOrBlank(sel.Network, source.Network) &&
		globOrBlank(sel.Station, source.Station) &&
		locationMatches(sel.Location, source.Location) &&
		globOrBlank(sel.Channel, source.Channel)
}

func globOrBlank(pattern, value string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	return globMatch(pattern, value)
}

// locationMatches handles the selection grammar's literal "--" meaning
// "blank location" (SPEC_FULL.md §6). The selection-file parser stores
// "--" as an empty Location, so an empty pattern also matches only a
// blank location.
func locationMatches(pattern, value string) bool {
	if pattern == "--" || pattern == "" {
		return value == ""
	}
	return globOrBlank(pattern, value)
}

func wrapSubstring(pattern string) string {
	if strings.Contains(pattern, "*") || strings.Contains(pattern, "?") {
		return pattern
	}
	return "*" + pattern + "*"
}

// globMatch is a shell-glob match (`*`, `?`) over a flat string, used for
// both -m SourceID glob matching and selection-file NET/STA/LOC/CHAN glob
// fields. filepath.Match operates on path segments but treats `*` as "any
// run of non-separator characters", which is exactly glob semantics here
// since SourceID strings contain no path separators.
func globMatch(pattern, s string) bool {
	ok, err := filepath.Match(pattern, s)
	return err == nil && ok
}
