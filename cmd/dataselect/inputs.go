package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iamNilotpal/dataselect/internal/model"
)

// resolveInputs expands every positional argument into FileRefs: plain
// paths, "file@start:end"/"file@start-end" byte-range suffixes (legacy ':'
// accepted, normalized to '-'), and "@listfile" indirection (one path per
// line, blank lines and '#' comments skipped), per SPEC_FULL.md §6.
func resolveInputs(args []string) ([]*model.FileRef, error) {
	var refs []*model.FileRef
	for _, arg := range args {
		expanded, err := resolveInput(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, expanded...)
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("no input files given")
	}
	return refs, nil
}

func resolveInput(arg string) ([]*model.FileRef, error) {
	if strings.HasPrefix(arg, "@") {
		return readListFile(strings.TrimPrefix(arg, "@"))
	}

	path, byteStart, byteEnd, err := splitByteRange(arg)
	if err != nil {
		return nil, err
	}

	return []*model.FileRef{{
		DisplayName:  filepath.Base(path),
		Path:         path,
		ByteStart:    byteStart,
		ByteEnd:      byteEnd,
		EarliestTime: model.NSTUnset,
		LatestTime:   model.NSTUnset,
	}}, nil
}

// readListFile expands a "@listfile" argument: one input path (itself
// possibly carrying a byte-range suffix) per line.
func readListFile(path string) ([]*model.FileRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening list file %s: %w", path, err)
	}
	defer f.Close()

	var refs []*model.FileRef
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		expanded, err := resolveInput(line)
		if err != nil {
			return nil, err
		}
		refs = append(refs, expanded...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading list file %s: %w", path, err)
	}
	return refs, nil
}

// splitByteRange splits "file@start:end"/"file@start-end" into its path
// and [start, end) bounds; bounds default to -1 (unbounded) when absent.
func splitByteRange(arg string) (path string, start, end int64, err error) {
	at := strings.LastIndex(arg, "@")
	if at < 0 {
		return arg, -1, -1, nil
	}

	path = arg[:at]
	rangeStr := strings.ReplaceAll(arg[at+1:], ":", "-")
	bounds := strings.SplitN(rangeStr, "-", 2)

	start, end = -1, -1
	if bounds[0] != "" {
		start, err = strconv.ParseInt(bounds[0], 10, 64)
		if err != nil {
			return "", 0, 0, fmt.Errorf("invalid byte range start in %q: %w", arg, err)
		}
	}
	if len(bounds) > 1 && bounds[1] != "" {
		end, err = strconv.ParseInt(bounds[1], 10, 64)
		if err != nil {
			return "", 0, 0, fmt.Errorf("invalid byte range end in %q: %w", arg, err)
		}
	}
	return path, start, end, nil
}
