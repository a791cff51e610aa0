// Package coverage implements the Coverage Analyzer (SPEC_FULL.md §4.4):
// for one target Segment, it walks the owning TraceList and derives the
// stretches of time where a higher-priority peer Segment already covers
// the target, expressed as a Coverage (model.Coverage) built from the
// peer's contributing Records rather than from the peer Segment's own
// bounds — so that TrimBounds already applied to a peer (by an earlier
// pruning pass, or by the Selection Filter) are reflected in what the
// target is allowed to retain.
package coverage

import (
	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/tracelist"
)

// Find is findcoverage(TraceList, targetSource, targetSeg) -> Coverage
// from SPEC_FULL.md §4.4. bestVersion selects whether publication-version
// priority is considered ahead of interval length; sampleRateTolerance and
// timeTolerance mirror the run's configured tolerances.
func Find(
	tl *tracelist.TraceList,
	targetSource model.SourceID,
	targetPubVersion int,
	targetSeg *model.Segment,
	bestVersion bool,
	sampleRateTolerance float64,
	timeTolerance model.NSTime,
) model.Coverage {
	var cov model.Coverage

	for _, trace := range tl.Traces {
		if trace.Source != targetSource {
			continue
		}

		for _, peer := range trace.Segments {
			if peer == targetSeg {
				continue
			}
			if peer.SampleRate == 0 {
				continue
			}
			if !model.RatesTolerable(peer.SampleRate, targetSeg.SampleRate, sampleRateTolerance) {
				continue
			}

			// A peer that starts after the target's reach cannot
			// overlap it and is skipped; the scan continues, since a
			// later trace of another version can hold earlier peers.
			if targetSeg.EndTime+timeTolerance < peer.StartTime {
				continue
			}

			if len(cov) > 0 && containedInLast(cov[len(cov)-1], peer.StartTime, peer.EndTime) {
				continue
			}

			overlaps := targetSeg.EndTime+timeTolerance >= peer.StartTime &&
				targetSeg.StartTime-timeTolerance <= peer.EndTime
			if !overlaps {
				continue
			}

			outranks := peerOutranks(trace.PubVersion, targetPubVersion, peer, targetSeg, bestVersion)
			if !outranks {
				continue
			}

			appendPeerRecords(&cov, tl.Arena, peer, trace.PubVersion, timeTolerance)
		}
	}

	return cov
}

// containedInLast reports whether [start, end] already lies fully within
// the most recently appended Coverage entry, the dedupe step of
// SPEC_FULL.md §4.4 step 3.
func containedInLast(last model.CoverageInterval, start, end model.NSTime) bool {
	return start >= last.Start && end <= last.End
}

// peerOutranks decides priority per SPEC_FULL.md §4.4 step 5: under
// best-version policy, higher publication version wins outright; ties (or
// best-version disabled) fall back to the longer interval, with an
// exact-length tie resolved in the peer's favor (the **[RESOLVED Open
// Question]** `>=` tie-break of SPEC_FULL.md §4.4, matching the
// findcoverage() revision read from original_source).
func peerOutranks(peerPubVersion, targetPubVersion int, peer, target *model.Segment, bestVersion bool) bool {
	if bestVersion && peerPubVersion != targetPubVersion {
		return peerPubVersion > targetPubVersion
	}

	peerLen := peer.EndTime - peer.StartTime
	targetLen := target.EndTime - target.StartTime
	return peerLen >= targetLen
}

// appendPeerRecords walks peer's RecordList, skipping reclen=0 (non-
// contributing) entries, and extends cov with each contributing record's
// effective interval — merging into the running Coverage segment when the
// gap to the next record is within tolerance of one sample period, per
// SPEC_FULL.md §4.4 step 6.
func appendPeerRecords(cov *model.Coverage, arena *model.RecordArena, peer *model.Segment, peerPubVersion int, timeTolerance model.NSTime) {
	period := model.SamplePeriod(peer.SampleRate)

	arena.Walk(peer, func(_ model.RecordID, rec *model.Record) bool {
		if !rec.Contributing() {
			return true
		}

		es, ee := rec.Effective()

		if n := len(*cov); n > 0 {
			last := &(*cov)[n-1]
			if absNS(last.End+period-es) <= timeTolerance {
				if ee > last.End {
					last.End = ee
				}
				return true
			}
		}

		*cov = append(*cov, model.CoverageInterval{
			Start:      es,
			End:        ee,
			SampleRate: peer.SampleRate,
			PubVersion: peerPubVersion,
		})
		return true
	})
}

func absNS(v model.NSTime) model.NSTime {
	if v < 0 {
		return -v
	}
	return v
}
