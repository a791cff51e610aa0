// Package summary formats the modification-summary output of spec.md §6:
// one line per emitted SourceID group, `[PREFIX]SOURCEID|PUBVER|
// STARTTIME|ENDTIME|BYTES_WRITTEN|SAMPLE_COUNT`, written to the
// configured destination ("-" stdout, "--" stderr, otherwise a file
// path).
package summary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/writer"
	"github.com/iamNilotpal/dataselect/pkg/errors"
)

// Open resolves path ("-" -> stdout, "--" -> stderr, else a created file)
// and returns a writer plus a close func that is a no-op for the standard
// streams.
func Open(path string) (io.Writer, func() error, error) {
	switch path {
	case "-":
		return os.Stdout, func() error { return nil }, nil
	case "--":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, errors.ClassifyFileOpenError(err, path, path)
		}
		return f, f.Close, nil
	}
}

// Write formats and writes one line per Summary with a non-zero
// BytesWritten, prefixed by prefix.
func Write(dst io.Writer, prefix string, summaries []writer.Summary) error {
	bw := bufio.NewWriter(dst)
	for _, s := range summaries {
		if s.BytesWritten == 0 {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s%s\n", prefix, Line(s)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Line formats one Summary as `SOURCEID|PUBVER|STARTTIME|ENDTIME|
// BYTES_WRITTEN|SAMPLE_COUNT`.
func Line(s writer.Summary) string {
	return fmt.Sprintf(
		"%s|%d|%s|%s|%d|%d",
		s.Source.String(), s.PubVersion,
		formatTime(s.Start), formatTime(s.End),
		s.BytesWritten, s.SampleCount,
	)
}

func formatTime(ns model.NSTime) string {
	if !ns.IsSet() {
		return ""
	}
	return time.Unix(0, int64(ns)).UTC().Format("2006-01-02T15:04:05.000000Z")
}
