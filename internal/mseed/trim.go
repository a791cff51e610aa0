package mseed

import (
	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/pkg/errors"
)

// TrimResult reports what Trim did to a record.
type TrimResult int

const (
	// TrimApplied means the record was successfully trimmed and repacked
	// into Output.
	TrimApplied TrimResult = iota
	// TrimSkip means every sample would have been dropped; the caller
	// should not emit anything for this record.
	TrimSkip
	// TrimUnsupported means the encoding (or, for a compressed stream, the
	// trim point) cannot be handled; the caller should emit the original,
	// untrimmed bytes instead. Not an error (spec.md §4.6).
	TrimUnsupported
)

// Trim is trim(record, buffer) from spec.md §4.6. newStart/newEnd are the
// record's TrimBound (either may be model.NSTUnset to mean "don't move
// that edge"). It parses the header fresh from buf (the caller has
// already read exactly RecLen bytes at the record's offset), decodes
// samples, advances the front/back edges sample-by-sample, and repacks.
//
// For format v2 inputs the header's FDSN sequence number is preserved
// unchanged into Output (it is already carried on Header and round-trips
// through PackRecord automatically).
func Trim(fileName string, offset int64, buf []byte, newStart, newEnd model.NSTime) (TrimResult, []byte, error) {
	h, headerLen, err := ParseHeader(fileName, offset, buf)
	if err != nil {
		return TrimUnsupported, nil, err
	}
	if !h.Encoding.TrimEligible() {
		return TrimUnsupported, nil, nil
	}

	payload := buf[headerLen : headerLen+int(h.DataLength)]
	period := h.SamplePeriod()

	if h.Encoding.Compressed() {
		return trimCompressed(h, payload, period, newStart, newEnd)
	}
	return trimNumeric(h, payload, period, newStart, newEnd)
}

func trimNumeric(h Header, payload []byte, period model.NSTime, newStart, newEnd model.NSTime) (TrimResult, []byte, error) {
	samples, err := DecodeSamples(h, payload)
	if err != nil {
		return TrimUnsupported, nil, errors.NewCodecError(err, errors.ErrorCodeCodecTrimFailure, "failed to decode samples for trim").
			WithEncoding(h.Encoding.String()).WithPhase("trim")
	}

	start := h.StartTime
	from := 0
	n := samples.Len()
	if newStart.IsSet() {
		for from < n && start < newStart {
			start += period
			from++
		}
	}
	if from >= n {
		return TrimSkip, nil, nil
	}

	end := start + period*model.NSTime(n-from-1)
	to := n
	if newEnd.IsSet() {
		for to > from && end > newEnd {
			end -= period
			to--
		}
	}
	if to <= from {
		return TrimSkip, nil, nil
	}

	trimmed := samples.Slice(from, to)
	h.StartTime = start
	h.SampleCount = uint32(to - from)

	return TrimApplied, PackRecord(h, EncodeSamples(trimmed)), nil
}

// trimCompressed handles the two opaque compressed encodings by
// converting the requested time trim into a frame count and splicing
// whole frames, per spec.md §4.6's allowance that an unsupported (i.e.
// non-frame-aligned) trim point degrades to TrimUnsupported rather than
// an error. Because individual sample times within a frame are not known
// without unpacking it, a frame is only dropped when its entire span lies
// before newStart (or after newEnd); any record where a requested edge
// does not fall exactly on a frame boundary reports TrimUnsupported,
// preserving spec.md's conservative degrade-and-emit-untrimmed rule.
func trimCompressed(h Header, payload []byte, period model.NSTime, newStart, newEnd model.NSTime) (TrimResult, []byte, error) {
	frames := FrameCount(payload)
	if frames == 0 {
		return TrimUnsupported, nil, nil
	}

	samplesPerFrame := float64(h.SampleCount) / float64(frames)
	if samplesPerFrame <= 0 {
		return TrimUnsupported, nil, nil
	}
	frameSpan := period * model.NSTime(samplesPerFrame)
	if frameSpan <= 0 {
		return TrimUnsupported, nil, nil
	}

	dropLeading, dropTrailing := 0, 0

	if newStart.IsSet() {
		offset := newStart - h.StartTime
		if offset < 0 {
			offset = 0
		}
		dropLeading = int(offset / frameSpan)
		if dropLeading >= frames {
			return TrimSkip, nil, nil
		}
		if offset%frameSpan != 0 {
			return TrimUnsupported, nil, nil
		}
	}

	if newEnd.IsSet() {
		recEnd := h.EndTime()
		offset := recEnd - newEnd
		if offset < 0 {
			offset = 0
		}
		dropTrailing = int(offset / frameSpan)
		if dropTrailing >= frames-dropLeading {
			return TrimSkip, nil, nil
		}
		if offset%frameSpan != 0 {
			return TrimUnsupported, nil, nil
		}
	}

	if dropLeading == 0 && dropTrailing == 0 {
		return TrimUnsupported, nil, nil
	}

	spliced := SpliceFrames(payload, dropLeading, dropTrailing)
	remainingFrames := frames - dropLeading - dropTrailing

	h.StartTime += frameSpan * model.NSTime(dropLeading)
	h.SampleCount = uint32(float64(remainingFrames) * samplesPerFrame)

	return TrimApplied, PackRecord(h, spliced), nil
}
