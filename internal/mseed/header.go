package mseed

import (
	"encoding/binary"
	"hash/crc32"
	"math"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/pkg/errors"
)

// FormatVersion is the miniSEED major version a record was parsed as.
type FormatVersion uint8

const (
	FormatV2 FormatVersion = 2
	FormatV3 FormatVersion = 3
)

// fixedHeaderPrefixSize is the byte length of everything in Header up to
// (but excluding) the variable-length NSLC fields and the sample payload:
// the format tag, sequence number, pub version, start time, sample rate,
// sample count, encoding, and data length. The v3 CRC is not included
// (see crcSize).
const fixedHeaderPrefixSize = 1 + 6 + 1 + 8 + 8 + 4 + 1 + 4

// crcSize is the trailing CRC32 field present only on format v3 headers.
const crcSize = 4

// Header is the parsed fixed+variable header of one miniSEED record,
// covering parse_header, endtime_of, source_id_of, sample_period_of, and
// encoding_of from spec.md §2's capability set.
type Header struct {
	Version FormatVersion

	// SequenceNumber is the FDSN legacy 6-digit sequence field, carried
	// opaquely for format v2 inputs so it round-trips through the codec
	// (SPEC_FULL.md §4.6).
	SequenceNumber [6]byte

	PubVersion int

	Source model.SourceID

	StartTime   model.NSTime
	SampleRate  float64
	SampleCount uint32
	Encoding    Encoding

	// DataLength is the byte length of the sample payload following the
	// header, as recorded on the wire (not necessarily SampleCount *
	// SampleSize() for a compressed encoding).
	DataLength uint32
}

// EndTime computes the record's nominal end time: the time of the last
// sample, start + (count-1)*samplePeriod. Zero sample rate or count
// yields StartTime unchanged (endtime_of).
func (h Header) EndTime() model.NSTime {
	if h.SampleCount == 0 {
		return h.StartTime
	}
	return h.StartTime + model.SamplePeriod(h.SampleRate)*model.NSTime(h.SampleCount-1)
}

// SourceIDValue returns the record's channel identity (source_id_of).
func (h Header) SourceIDValue() model.SourceID { return h.Source }

// SamplePeriod returns the nominal inter-sample spacing in nanoseconds
// (sample_period_of).
func (h Header) SamplePeriod() model.NSTime { return model.SamplePeriod(h.SampleRate) }

// EncodingOf returns the record's sample encoding (encoding_of).
func (h Header) EncodingOf() Encoding { return h.Encoding }

// headerByteLen returns the total encoded size of the fixed+variable
// header, including the trailing CRC on format v3.
func (h Header) headerByteLen() int {
	n := fixedHeaderPrefixSize + 4*1 + len(h.Source.Network) + len(h.Source.Station) + len(h.Source.Location) + len(h.Source.Channel)
	if h.Version == FormatV3 {
		n += crcSize
	}
	return n
}

// ParseHeader decodes one record's header from the front of buf,
// returning the header, the header's byte length (so the caller can
// locate the sample payload immediately after it), and an error.
//
// On a format v3 record, the trailing CRC is validated over the header
// (with the CRC field itself zeroed) plus the sample payload; a mismatch
// yields a CodecError with ErrorCodeCRCMismatch. Ingest handles that error
// like any other parse failure: it stops the run, or with -snd resumes
// scanning one byte further on. The failing record is not skipped as a
// whole.
func ParseHeader(fileName string, offset int64, buf []byte) (Header, int, error) {
	if len(buf) < fixedHeaderPrefixSize+4 {
		return Header{}, 0, errors.NewCodecError(nil, errors.ErrorCodeCodecParseFailure, "record buffer too short for a miniSEED header").
			WithFileName(fileName).
			WithOffset(offset).
			WithPhase("read")
	}

	var h Header
	p := buf

	h.Version = FormatVersion(p[0])
	if h.Version != FormatV2 && h.Version != FormatV3 {
		return Header{}, 0, errors.NewCodecError(nil, errors.ErrorCodeCodecParseFailure, "unrecognized miniSEED format version").
			WithFileName(fileName).
			WithOffset(offset).
			WithPhase("read")
	}
	p = p[1:]

	copy(h.SequenceNumber[:], p[:6])
	p = p[6:]

	h.PubVersion = int(p[0])
	p = p[1:]

	h.StartTime = model.NSTime(int64(binary.BigEndian.Uint64(p[:8])))
	p = p[8:]

	h.SampleRate = math.Float64frombits(binary.BigEndian.Uint64(p[:8]))
	p = p[8:]

	h.SampleCount = binary.BigEndian.Uint32(p[:4])
	p = p[4:]

	h.Encoding = encodingFromByte(p[0])
	p = p[1:]

	h.DataLength = binary.BigEndian.Uint32(p[:4])
	p = p[4:]

	var crcField uint32
	crcOffset := 0
	if h.Version == FormatV3 {
		if len(p) < crcSize {
			return Header{}, 0, errors.NewCodecError(nil, errors.ErrorCodeCodecParseFailure, "truncated v3 CRC field").
				WithFileName(fileName).WithOffset(offset).WithPhase("read")
		}
		crcField = binary.BigEndian.Uint32(p[:crcSize])
		crcOffset = len(buf) - len(p)
		p = p[crcSize:]
	}

	var err error
	h.Source.Network, p, err = readPString(p)
	if err != nil {
		return Header{}, 0, parseErr(fileName, offset, err)
	}
	h.Source.Station, p, err = readPString(p)
	if err != nil {
		return Header{}, 0, parseErr(fileName, offset, err)
	}
	h.Source.Location, p, err = readPString(p)
	if err != nil {
		return Header{}, 0, parseErr(fileName, offset, err)
	}
	h.Source.Channel, p, err = readPString(p)
	if err != nil {
		return Header{}, 0, parseErr(fileName, offset, err)
	}

	headerLen := len(buf) - len(p)

	if h.Version == FormatV3 {
		if len(buf) < headerLen+int(h.DataLength) {
			return Header{}, 0, errors.NewCodecError(nil, errors.ErrorCodeCodecParseFailure, "record shorter than declared data length").
				WithFileName(fileName).WithOffset(offset).WithPhase("read")
		}
		if !validCRC(buf, crcOffset, headerLen+int(h.DataLength), crcField) {
			return Header{}, 0, errors.NewCodecError(nil, errors.ErrorCodeCRCMismatch, "format v3 header CRC mismatch").
				WithFileName(fileName).WithOffset(offset).WithPhase("read")
		}
	}

	return h, headerLen, nil
}

func parseErr(fileName string, offset int64, err error) error {
	return errors.NewCodecError(err, errors.ErrorCodeCodecParseFailure, "malformed miniSEED variable header").
		WithFileName(fileName).WithOffset(offset).WithPhase("read")
}

// readPString reads a uint8-length-prefixed ASCII field (network/station/
// location/channel), returning the field and the remaining buffer.
func readPString(buf []byte) (string, []byte, error) {
	if len(buf) < 1 {
		return "", nil, errShortBuffer
	}
	n := int(buf[0])
	buf = buf[1:]
	if len(buf) < n {
		return "", nil, errShortBuffer
	}
	return string(buf[:n]), buf[n:], nil
}

var errShortBuffer = shortBufferError{}

type shortBufferError struct{}

func (shortBufferError) Error() string { return "miniSEED header field truncated" }

// validCRC recomputes the CRC32 (IEEE) over buf[crcOffset+4:dataEnd] plus
// buf[:crcOffset] — i.e. the whole record with the CRC field itself
// treated as zero — and compares against want.
func validCRC(buf []byte, crcOffset, dataEnd int, want uint32) bool {
	return computeCRC(buf, crcOffset, dataEnd) == want
}

// computeCRC is the CRC32 (IEEE polynomial, stdlib hash/crc32) over a
// record buffer with its CRC field zeroed, used both to validate an
// inbound v3 record and to recompute the CRC when pack.go re-emits one
// (e.g. after a publication-version rewrite).
func computeCRC(buf []byte, crcOffset, dataEnd int) uint32 {
	h := crc32.NewIEEE()
	h.Write(buf[:crcOffset])
	h.Write(make([]byte, crcSize))
	h.Write(buf[crcOffset+crcSize : dataEnd])
	return h.Sum32()
}
