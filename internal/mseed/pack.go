package mseed

import (
	"encoding/binary"
	"math"
)

// PackRecord is pack_record from spec.md §2's capability set: it
// serializes h and the already-encoded payload bytes into one on-wire
// record, recomputing the format-v3 CRC over the result (spec.md §4.6
// step 4: "recomputing the format-v3 header CRC when applicable").
func PackRecord(h Header, payload []byte) []byte {
	buf := make([]byte, 0, h.headerByteLen()+len(payload))

	buf = append(buf, byte(h.Version))
	buf = append(buf, h.SequenceNumber[:]...)
	buf = append(buf, byte(h.PubVersion))

	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(int64(h.StartTime)))
	buf = append(buf, tmp[:]...)

	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(h.SampleRate))
	buf = append(buf, tmp[:]...)

	var tmp4 [4]byte
	binary.BigEndian.PutUint32(tmp4[:], h.SampleCount)
	buf = append(buf, tmp4[:]...)

	buf = append(buf, byte(h.Encoding))

	binary.BigEndian.PutUint32(tmp4[:], uint32(len(payload)))
	buf = append(buf, tmp4[:]...)

	crcOffset := -1
	if h.Version == FormatV3 {
		crcOffset = len(buf)
		buf = append(buf, 0, 0, 0, 0) // placeholder, filled below
	}

	buf = appendPString(buf, h.Source.Network)
	buf = appendPString(buf, h.Source.Station)
	buf = appendPString(buf, h.Source.Location)
	buf = appendPString(buf, h.Source.Channel)

	buf = append(buf, payload...)

	if crcOffset >= 0 {
		crc := computeCRC(buf, crcOffset, len(buf))
		binary.BigEndian.PutUint32(buf[crcOffset:], crc)
	}

	return buf
}

func appendPString(buf []byte, s string) []byte {
	buf = append(buf, byte(len(s)))
	return append(buf, s...)
}
