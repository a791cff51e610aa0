package mseed

import (
	"encoding/binary"
	"math"

	"github.com/iamNilotpal/dataselect/pkg/errors"
)

// Samples holds a record's decoded sample payload. Exactly one of the
// typed slices is populated, selected by Encoding; for a Compressed
// encoding neither is populated and Raw carries the opaque frame bytes
// instead (decode_samples does not attempt to unpack Steim deltas, per
// this codebase's scoped-down trim support, SPEC_FULL.md §4.6).
type Samples struct {
	Encoding Encoding

	Int16   []int16
	Int32   []int32
	Float32 []float32
	Float64 []float64

	// Raw is the undecoded payload for a Compressed encoding.
	Raw []byte
}

// Len returns the sample count represented, for whichever slice is
// populated.
func (s Samples) Len() int {
	switch s.Encoding {
	case EncodingInt16:
		return len(s.Int16)
	case EncodingInt32:
		return len(s.Int32)
	case EncodingFloat32:
		return len(s.Float32)
	case EncodingFloat64:
		return len(s.Float64)
	default:
		return 0
	}
}

// DecodeSamples is decode_samples from spec.md §2's capability set: given
// a parsed Header and the DataLength bytes immediately following it, it
// decodes the fixed-width numeric encodings to typed slices, or, for a
// Compressed encoding, returns the payload unexamined as Raw (the caller
// uses frames.go to splice it at trim time without individual samples).
func DecodeSamples(h Header, payload []byte) (Samples, error) {
	if h.Encoding.Compressed() {
		return Samples{Encoding: h.Encoding, Raw: payload}, nil
	}

	width := h.Encoding.SampleSize()
	if width == 0 {
		return Samples{}, errors.NewCodecError(nil, errors.ErrorCodeUnsupportedEncoding, "no sample decoder for this encoding").
			WithEncoding(h.Encoding.String()).
			WithPhase("read")
	}
	if len(payload) < int(h.SampleCount)*width {
		return Samples{}, errors.NewCodecError(nil, errors.ErrorCodeCodecParseFailure, "sample payload shorter than declared sample count").
			WithEncoding(h.Encoding.String()).
			WithPhase("read")
	}

	out := Samples{Encoding: h.Encoding}
	n := int(h.SampleCount)

	switch h.Encoding {
	case EncodingInt16:
		out.Int16 = make([]int16, n)
		for i := 0; i < n; i++ {
			out.Int16[i] = int16(binary.BigEndian.Uint16(payload[i*2:]))
		}
	case EncodingInt32:
		out.Int32 = make([]int32, n)
		for i := 0; i < n; i++ {
			out.Int32[i] = int32(binary.BigEndian.Uint32(payload[i*4:]))
		}
	case EncodingFloat32:
		out.Float32 = make([]float32, n)
		for i := 0; i < n; i++ {
			out.Float32[i] = math.Float32frombits(binary.BigEndian.Uint32(payload[i*4:]))
		}
	case EncodingFloat64:
		out.Float64 = make([]float64, n)
		for i := 0; i < n; i++ {
			out.Float64[i] = math.Float64frombits(binary.BigEndian.Uint64(payload[i*8:]))
		}
	}

	return out, nil
}

// EncodeSamples is the inverse of DecodeSamples for the four numeric
// encodings: it serializes s back to a byte payload in the same
// fixed-width big-endian layout. Used by trim.go when re-emitting a
// trimmed record.
func EncodeSamples(s Samples) []byte {
	switch s.Encoding {
	case EncodingInt16:
		buf := make([]byte, len(s.Int16)*2)
		for i, v := range s.Int16 {
			binary.BigEndian.PutUint16(buf[i*2:], uint16(v))
		}
		return buf
	case EncodingInt32:
		buf := make([]byte, len(s.Int32)*4)
		for i, v := range s.Int32 {
			binary.BigEndian.PutUint32(buf[i*4:], uint32(v))
		}
		return buf
	case EncodingFloat32:
		buf := make([]byte, len(s.Float32)*4)
		for i, v := range s.Float32 {
			binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(v))
		}
		return buf
	case EncodingFloat64:
		buf := make([]byte, len(s.Float64)*8)
		for i, v := range s.Float64 {
			binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(v))
		}
		return buf
	default:
		return s.Raw
	}
}

// Slice returns the sub-range [from, to) of s, preserving Encoding. Used
// by the Writer's trim() to drop leading/trailing samples.
func (s Samples) Slice(from, to int) Samples {
	out := Samples{Encoding: s.Encoding}
	switch s.Encoding {
	case EncodingInt16:
		out.Int16 = s.Int16[from:to]
	case EncodingInt32:
		out.Int32 = s.Int32[from:to]
	case EncodingFloat32:
		out.Float32 = s.Float32[from:to]
	case EncodingFloat64:
		out.Float64 = s.Float64[from:to]
	default:
		out.Raw = s.Raw
	}
	return out
}
