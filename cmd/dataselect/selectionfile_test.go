package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseSelectionFile_ParsesFullLineAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sel.txt")
	content := "# a comment\n\nXX AAA -- BHZ D 2024-01-01 2024-01-02\nYY BBB LO EHZ\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	sels, err := parseSelectionFile(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Len(t, sels, 2)

	require.Equal(t, "XX", sels[0].Network)
	require.Equal(t, "AAA", sels[0].Station)
	require.Equal(t, "", sels[0].Location)
	require.Equal(t, "BHZ", sels[0].Channel)
	require.Equal(t, "D", sels[0].Quality)
	require.False(t, sels[0].Start.IsZero())
	require.False(t, sels[0].End.IsZero())

	require.Equal(t, "LO", sels[1].Location)
	require.True(t, sels[1].Start.IsZero())
}

func TestParseSelectionFile_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sel.txt")
	require.NoError(t, os.WriteFile(path, []byte("XX AAA\nYY BBB LO EHZ\n"), 0644))

	sels, err := parseSelectionFile(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Len(t, sels, 1)
	require.Equal(t, "YY", sels[0].Network)
}
