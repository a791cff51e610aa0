package mseed_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/dataselect/internal/mseed"
	"github.com/iamNilotpal/dataselect/internal/model"
)

func buildRecord(t *testing.T, version mseed.FormatVersion, enc mseed.Encoding, start model.NSTime, sps float64, samples []int32) []byte {
	t.Helper()

	h := mseed.Header{
		Version:     version,
		PubVersion:  1,
		Source:      model.SourceID{Network: "XX", Station: "AAA", Location: "", Channel: "BHZ"},
		StartTime:   start,
		SampleRate:  sps,
		SampleCount: uint32(len(samples)),
		Encoding:    enc,
	}
	copy(h.SequenceNumber[:], []byte("000001"))

	s := mseed.Samples{Encoding: enc, Int32: samples}
	payload := mseed.EncodeSamples(s)
	return mseed.PackRecord(h, payload)
}

func TestParseHeader_RoundTripsV2Int32(t *testing.T) {
	samples := []int32{1, 2, 3, 4, 5}
	buf := buildRecord(t, mseed.FormatV2, mseed.EncodingInt32, model.NSTime(1000), 10, samples)

	h, headerLen, err := mseed.ParseHeader("test.mseed", 0, buf)
	require.NoError(t, err)
	require.Equal(t, "XX.AAA..BHZ", h.Source.Network+"."+h.Source.Station+"."+h.Source.Location+"."+h.Source.Channel)
	require.Equal(t, uint32(5), h.SampleCount)

	decoded, err := mseed.DecodeSamples(h, buf[headerLen:headerLen+int(h.DataLength)])
	require.NoError(t, err)
	require.Equal(t, samples, decoded.Int32)
}

func TestParseHeader_V3ValidatesCRC(t *testing.T) {
	buf := buildRecord(t, mseed.FormatV3, mseed.EncodingFloat32, model.NSTime(0), 1, []int32{})

	_, _, err := mseed.ParseHeader("test.mseed", 0, buf)
	require.NoError(t, err)

	corrupted := append([]byte(nil), buf...)
	corrupted[len(corrupted)-1] ^= 0xFF
	_, _, err = mseed.ParseHeader("test.mseed", 0, corrupted)
	require.Error(t, err)
}

func TestTrim_NumericFrontAndBackTrim(t *testing.T) {
	samples := []int32{10, 20, 30, 40, 50}
	start := model.NSTime(0)
	sps := 1.0
	buf := buildRecord(t, mseed.FormatV2, mseed.EncodingInt32, start, sps, samples)

	period := model.SamplePeriod(sps)
	newStart := start + period*2
	newEnd := start + period*3

	result, out, err := mseed.Trim("test.mseed", 0, buf, newStart, newEnd)
	require.NoError(t, err)
	require.Equal(t, mseed.TrimApplied, result)

	h, headerLen, err := mseed.ParseHeader("test.mseed", 0, out)
	require.NoError(t, err)
	decoded, err := mseed.DecodeSamples(h, out[headerLen:headerLen+int(h.DataLength)])
	require.NoError(t, err)
	require.Equal(t, []int32{30, 40}, decoded.Int32)
	require.Equal(t, newStart, h.StartTime)
}

func TestTrim_DropsAllSamplesReturnsSkip(t *testing.T) {
	samples := []int32{1, 2, 3}
	start := model.NSTime(0)
	sps := 1.0
	buf := buildRecord(t, mseed.FormatV2, mseed.EncodingInt32, start, sps, samples)

	period := model.SamplePeriod(sps)
	newStart := start + period*10

	result, _, err := mseed.Trim("test.mseed", 0, buf, newStart, model.NSTUnset)
	require.NoError(t, err)
	require.Equal(t, mseed.TrimSkip, result)
}
