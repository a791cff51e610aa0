package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/pkg/options"
)

// parseSelectionFile reads a -s selection file: one entry per line, `#`
// comments, whitespace-separated `NET STA LOC CHAN [QUAL] [STARTTIME]
// [ENDTIME]` (spec.md §6). A literal "--" location means blank location;
// missing times mean unbounded. Lines missing NSLC are skipped with a
// warning rather than aborting the run.
func parseSelectionFile(path string, log *zap.SugaredLogger) ([]options.Selection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening selection file %s: %w", path, err)
	}
	defer f.Close()

	var out []options.Selection
	scanner := bufio.NewScanner(f)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			log.Warnw("skipping selection-file line missing NET STA LOC CHAN", "file", path, "line", lineNo)
			continue
		}

		sel := options.Selection{Network: fields[0], Station: fields[1], Location: fields[2], Channel: fields[3]}
		if sel.Location == "--" {
			sel.Location = ""
		}

		if len(fields) > 4 {
			sel.Quality = fields[4]
		}
		if len(fields) > 5 {
			start, err := parseTime(fields[5])
			if err != nil {
				log.Warnw("skipping unparsable selection start time", "file", path, "line", lineNo, "error", err)
				continue
			}
			sel.Start = start
		}
		if len(fields) > 6 {
			end, err := parseTime(fields[6])
			if err != nil {
				log.Warnw("skipping unparsable selection end time", "file", path, "line", lineNo, "error", err)
				continue
			}
			sel.End = end
		}

		out = append(out, sel)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading selection file %s: %w", path, err)
	}
	return out, nil
}
