package model

import "math"

// RatesTolerable reports whether two sample rates are close enough to be
// treated as the same channel rate. SPEC_FULL.md §9 notes this predicate
// is "delegated to the codec's macro" in the original source
// (MS_ISRATETOLERABLE); here it is a plain relative-difference test the
// rest of the engine can call directly, parameterized by the configured
// tolerance fraction.
func RatesTolerable(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	if a == 0 || b == 0 {
		return false
	}
	diff := math.Abs(a - b)
	return diff/math.Abs(a) <= tolerance && diff/math.Abs(b) <= tolerance
}

// EffectiveTimeTolerance resolves the configured time tolerance: a
// positive userTolerance overrides it, otherwise half a sample period at
// rate sps, per SPEC_FULL.md §4.2.
func EffectiveTimeTolerance(userTolerance NSTime, sps float64) NSTime {
	if userTolerance > 0 {
		return userTolerance
	}
	return SamplePeriod(sps) / 2
}
