package mseed

// FrameSize is the fixed block size this codec treats the two compressed
// encodings' opaque payload as divided into. Real Steim-1/Steim-2 frames
// are 64 bytes; this codec never decodes individual deltas (scoped down
// per spec.md's non-goal excluding Steim/IEEE encoders as an internal
// concern), but whole frames can still be dropped wholesale at a trim
// point that happens to land on a frame boundary.
const FrameSize = 64

// FrameCount returns how many whole frames raw divides into.
func FrameCount(raw []byte) int { return len(raw) / FrameSize }

// SpliceFrames drops dropLeading whole frames from the front and
// dropTrailing whole frames from the back of raw, returning the
// remaining frames. The caller is responsible for having already
// verified the trim points land on frame boundaries; this function
// always succeeds given valid counts.
func SpliceFrames(raw []byte, dropLeading, dropTrailing int) []byte {
	total := FrameCount(raw)
	start := dropLeading * FrameSize
	end := (total - dropTrailing) * FrameSize
	if start > end {
		start = end
	}
	return raw[start:end]
}
