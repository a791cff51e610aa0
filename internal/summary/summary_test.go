package summary_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/summary"
	"github.com/iamNilotpal/dataselect/internal/writer"
)

func TestWrite_FormatsOneLinePerNonEmptySummary(t *testing.T) {
	summaries := []writer.Summary{
		{
			Source:       model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"},
			PubVersion:   1,
			Start:        model.NSTime(0),
			End:          model.NSTime(1_000_000_000),
			BytesWritten: 512,
			SampleCount:  10,
		},
		{Source: model.SourceID{Network: "XX", Station: "ZZZ", Channel: "BHZ"}, BytesWritten: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, summary.Write(&buf, "ds_", summaries))

	require.Equal(t, "ds_XX.AAA..BHZ|1|1970-01-01T00:00:00.000000Z|1970-01-01T00:00:01.000000Z|512|10\n", buf.String())
}
