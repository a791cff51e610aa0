// Command dataselect selects, reconciles, and re-exports miniSEED records:
// it ingests one or more input files, prunes overlapping or duplicate
// coverage by publication-version and interval-length priority, trims
// survivors at sample granularity against selection windows, and writes
// the result to a single output file and/or a templated archive layout.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iamNilotpal/dataselect/pkg/dataselect"
	"github.com/iamNilotpal/dataselect/pkg/errors"
	"github.com/iamNilotpal/dataselect/pkg/logging"
)

// version is the release tag this build reports for -V. Bumped by hand
// until a real release pipeline stamps it at build time.
const version = "dataselect 1.0.0"

func main() {
	f := &cliFlags{}

	root := &cobra.Command{
		Use:           "dataselect [flags] file [file...]",
		Short:         "Select and reconcile miniSEED records",
		Long:          rootLongHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f, args)
		},
	}
	registerFlags(root, f)

	root.SetArgs(normalizeArgs(os.Args[1:]))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(f *cliFlags, args []string) error {
	if f.version {
		fmt.Println(version)
		return nil
	}
	if f.extendedHelp {
		fmt.Println(rootLongHelp)
		fmt.Println(archiveFormatHelp)
		return nil
	}

	log := logging.New(f.verbose)
	defer log.Sync() //nolint:errcheck // best-effort flush on exit

	opts, err := resolveOptions(f, log)
	if err != nil {
		return err
	}

	inputs, err := resolveInputs(args)
	if err != nil {
		return err
	}

	raiseOpenFileLimit(uint64(len(inputs))+uint64(opts.ArchiveMaxOpenFiles)+headroomFileDescriptors, log)

	instance, err := dataselect.NewInstance(opts, log, inputs)
	if err != nil {
		return classifyTopLevelError(err)
	}

	report, err := instance.Run()
	if err != nil {
		return classifyTopLevelError(err)
	}

	var recordsRead, recordsAdmitted int
	for _, r := range report.Ingest {
		recordsRead += r.RecordsRead
		recordsAdmitted += r.RecordsAdmitted
	}
	var bytesWritten int64
	for _, s := range report.Summaries {
		bytesWritten += s.BytesWritten
	}
	log.Infow("run complete",
		"filesIngested", len(report.Ingest),
		"recordsRead", recordsRead,
		"recordsAdmitted", recordsAdmitted,
		"groupsWritten", len(report.Summaries),
		"bytesWritten", humanize.Bytes(uint64(bytesWritten)),
	)
	return nil
}

// headroomFileDescriptors is added on top of the input-file and archive
// counts when requesting a raised RLIMIT_NOFILE (SPEC_FULL.md §5).
const headroomFileDescriptors = 16

// classifyTopLevelError formats a terminal failure per spec.md §7: a
// single "ERROR:" line, whatever the underlying typed error was.
func classifyTopLevelError(err error) error {
	code := errors.GetErrorCode(err)
	return fmt.Errorf("[%s] %w", code, err)
}

var rootLongHelp = strings.TrimSpace(`
dataselect reconciles one or more miniSEED input files into a single,
gap-aware, priority-pruned output stream.

Use -H for extended help, including the archive path template grammar.
`)

var archiveFormatHelp = strings.TrimSpace(`
Archive path template flags (each preceded by '%' for a defining/grouping
placeholder, or '#' for a non-defining one formatted from the first
record reaching that file):

  n s l c   network / station / location / channel
  Y y       4-digit / 2-digit year
  j H M S   day-of-year, hour, minute, second
  F         fractional seconds, 4-digit
  N         nanoseconds, 9-digit
  v         publication version, decimal
  q         legacy quality letter (R/D/Q/M for versions 1-4), else decimal
  L         record length in bytes
  r         sample rate rounded to the nearest integer
  R         sample rate as a 6-decimal float
  % #       literal '%' or '#'
`)
