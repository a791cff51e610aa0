package mseed

// pubVersionOffset is the fixed byte offset of the publication-version
// field within any record buffer: 1 byte format tag + 6 bytes sequence
// number.
const pubVersionOffset = 1 + 6

// RestampPubVersion rewrites the publication-version byte of a packed
// record in place and, for a format v3 record, recomputes the header CRC
// over the result — spec.md §4.6 step 4: "If the user requested a
// publication-version override, rewrite the version byte/field in place
// before emitting (recomputing the format-v3 header CRC when
// applicable)". buf is modified in place and also returned.
func RestampPubVersion(buf []byte, newVersion int) []byte {
	if len(buf) <= pubVersionOffset {
		return buf
	}
	buf[pubVersionOffset] = byte(newVersion)

	if FormatVersion(buf[0]) != FormatV3 {
		return buf
	}

	crcOffset := fixedHeaderPrefixSize
	if len(buf) < crcOffset+crcSize {
		return buf
	}
	crc := computeCRC(buf, crcOffset, len(buf))
	buf[crcOffset] = byte(crc >> 24)
	buf[crcOffset+1] = byte(crc >> 16)
	buf[crcOffset+2] = byte(crc >> 8)
	buf[crcOffset+3] = byte(crc)

	return buf
}
