package archive_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/archive"
	"github.com/iamNilotpal/dataselect/internal/model"
)

func TestParse_CHANPreset(t *testing.T) {
	tmpl, err := archive.Parse("%n.%s.%l.%c")
	require.NoError(t, err)

	v := archive.Values{Source: model.SourceID{Network: "XX", Station: "AAA", Location: "00", Channel: "BHZ"}}
	path, err := tmpl.Render(v, v)
	require.NoError(t, err)
	require.Equal(t, "XX.AAA.00.BHZ", path)
}

func TestParse_SDSPreset(t *testing.T) {
	tmpl, err := archive.Parse("%Y/%n/%s/%c.D/%n.%s.%l.%c.D.%Y.%j")
	require.NoError(t, err)

	tm := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	v := archive.Values{
		Source: model.SourceID{Network: "XX", Station: "AAA", Location: "", Channel: "BHZ"},
		Time:   tm,
	}
	path, err := tmpl.Render(v, v)
	require.NoError(t, err)
	require.Equal(t, "2024/XX/AAA/BHZ.D/XX.AAA..BHZ.D.2024.065", path)
}

func TestParse_EmptyTemplateIsConfigError(t *testing.T) {
	_, err := archive.Parse("")
	require.Error(t, err)
}

func TestTemplate_NonDefiningPlaceholderUsesFirstRecord(t *testing.T) {
	tmpl, err := archive.Parse("%n.%s.%l.%c.#v")
	require.NoError(t, err)

	first := archive.Values{Source: model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"}, PubVersion: 1}
	later := archive.Values{Source: model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"}, PubVersion: 2}

	k1, err := tmpl.Key(first)
	require.NoError(t, err)
	k2, err := tmpl.Key(later)
	require.NoError(t, err)
	require.Equal(t, k1, k2) // #v is not part of the key, only the NSLC flags are

	path, err := tmpl.Render(later, first)
	require.NoError(t, err)
	require.Equal(t, "XX.AAA..BHZ.1", path)
}

func TestMux_WriteCreatesFileAndAppends(t *testing.T) {
	dir := t.TempDir()
	tmpl, err := archive.Parse(filepath.Join(dir, "%n.%s.%c"))
	require.NoError(t, err)

	log := zap.NewNop().Sugar()
	mux := archive.NewMux(tmpl, 10, time.Minute, log)
	defer mux.CloseAll()

	v := archive.Values{Source: model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"}}
	require.NoError(t, mux.Write(v, []byte("hello")))
	require.NoError(t, mux.Write(v, []byte("world")))

	data, err := os.ReadFile(filepath.Join(dir, "XX.AAA.BHZ"))
	require.NoError(t, err)
	require.Equal(t, "helloworld", string(data))
}

func TestMux_EvictsIdleStreamsAtCapacity(t *testing.T) {
	dir := t.TempDir()
	tmpl, err := archive.Parse(filepath.Join(dir, "%n.%s.%c"))
	require.NoError(t, err)

	log := zap.NewNop().Sugar()
	mux := archive.NewMux(tmpl, 1, time.Nanosecond, log)
	defer mux.CloseAll()

	a := archive.Values{Source: model.SourceID{Network: "XX", Station: "AAA", Channel: "BHZ"}}
	b := archive.Values{Source: model.SourceID{Network: "XX", Station: "BBB", Channel: "BHZ"}}

	require.NoError(t, mux.Write(a, []byte("1")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, mux.Write(b, []byte("2")))

	_, err = os.Stat(filepath.Join(dir, "XX.AAA.BHZ"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "XX.BBB.BHZ"))
	require.NoError(t, err)
}
