package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/pkg/options"
)

// cliFlags holds every flag's raw destination before it is translated
// into options.OptionFuncs; cobra/pflag need concrete Go variables to
// bind to, so this struct plays the role the teacher's sibling repos give
// their own per-command flag structs (e.g. Sumatoshi-tech-codefang/cmd/
// codefang/commands.runFlags).
type cliFlags struct {
	version      bool
	extendedHelp bool
	verbose      int

	timeTolerance float64
	rateTolerance float64

	disableBestVersion bool

	selectionFile string
	startTime     string
	endTime       string
	sourceMatch   string
	matchExpr     string
	rejectExpr    string

	skipNotData bool

	outputPath   string
	appendOutput string
	archives     []string

	chanDir, vchanDir, qchanDir, cdayDir, sdayDir, budDir, sdsDir, cssDir string

	pruneRecord bool
	pruneSample bool
	pruneEdges  bool

	splitDay, splitHour, splitMinute bool

	quality string

	summaryPath   string
	summaryPrefix string

	configFile string
}

func registerFlags(cmd *cobra.Command, f *cliFlags) {
	fs := cmd.Flags()

	fs.BoolVarP(&f.version, "V", "V", false, "print version and exit")
	fs.BoolVarP(&f.extendedHelp, "H", "H", false, "print extended help, including archive format flags")
	fs.CountVarP(&f.verbose, "v", "v", "increase verbosity (repeatable)")

	fs.Float64Var(&f.timeTolerance, "tt", 0, "override time tolerance, in seconds")
	fs.Float64Var(&f.rateTolerance, "rt", 0, "override sample-rate tolerance, as a fraction")

	fs.BoolVarP(&f.disableBestVersion, "E", "E", false, "disable best-version priority; all publication versions equal")

	fs.StringVarP(&f.selectionFile, "s", "s", "", "load a selections file")
	fs.StringVar(&f.startTime, "ts", "", "global start time inclusion bound")
	fs.StringVar(&f.endTime, "te", "", "global end time inclusion bound")
	fs.StringVarP(&f.sourceMatch, "m", "m", "", "SourceID glob pattern, auto-wrapped with *...* for substring match")
	fs.StringVarP(&f.matchExpr, "M", "M", "", "legacy match regex (optionally @file-sourced)")
	fs.StringVarP(&f.rejectExpr, "R", "R", "", "legacy reject regex (optionally @file-sourced)")

	fs.BoolVar(&f.skipNotData, "snd", false, "skip non-miniSEED data rather than erroring")

	fs.StringVarP(&f.outputPath, "o", "o", "", "single output file, overwrite/create ('-' = stdout)")
	fs.StringVar(&f.appendOutput, "append-output", "", "single output file, append (the '+o' flag)")
	fs.StringArrayVarP(&f.archives, "A", "A", nil, "add an archive sink with a custom path template")

	fs.StringVar(&f.chanDir, "CHAN", "", "write records into separate Net.Sta.Loc.Chan files under dir")
	fs.StringVar(&f.vchanDir, "VCHAN", "", "write records into separate Net.Sta.Loc.Chan.PubVersion files under dir")
	fs.StringVar(&f.qchanDir, "QCHAN", "", "write records into separate Net.Sta.Loc.Chan.Quality files under dir")
	fs.StringVar(&f.cdayDir, "CDAY", "", "write records into separate per-channel per-day files under dir")
	fs.StringVar(&f.sdayDir, "SDAY", "", "write records into separate per-station per-day files under dir")
	fs.StringVar(&f.budDir, "BUD", "", "write records in a BUD file layout under dir")
	fs.StringVar(&f.sdsDir, "SDS", "", "write records in an SDS file layout under dir")
	fs.StringVar(&f.cssDir, "CSS", "", "write records in a CSS file layout under dir")

	fs.BoolVar(&f.pruneRecord, "Pr", false, "prune mode: whole-record level")
	fs.BoolVar(&f.pruneSample, "Ps", false, "prune mode: sample level")
	fs.BoolVar(&f.pruneEdges, "Pe", false, "prune mode: edges only (selection-derived trim, no peer pruning)")

	fs.BoolVar(&f.splitDay, "Sd", false, "split records at day boundaries")
	fs.BoolVar(&f.splitHour, "Sh", false, "split records at hour boundaries")
	fs.BoolVar(&f.splitMinute, "Sm", false, "split records at minute boundaries")

	fs.StringVarP(&f.quality, "Q", "Q", "", "re-stamp publication version/quality (R,D,Q,M or 1..255)")

	fs.StringVar(&f.summaryPath, "out", "", "modification summary destination ('-' stdout, '--' stderr)")
	fs.StringVar(&f.summaryPrefix, "outprefix", "", "prefix prepended to every summary line")

	fs.StringVar(&f.configFile, "config", "", "optional YAML config file for tolerance/archive defaults")
}

// resolveOptions turns the raw flags into an options.Options, applying
// any -config file's values first so flags explicitly given on the
// command line always win.
func resolveOptions(f *cliFlags, log *zap.SugaredLogger) (options.Options, error) {
	var fns []options.OptionFunc

	if f.configFile != "" {
		configFns, err := loadConfigFile(f.configFile)
		if err != nil {
			return options.Options{}, err
		}
		fns = append(fns, configFns...)
	}

	fns = append(fns, options.WithVerbose(f.verbose))

	if f.timeTolerance > 0 {
		fns = append(fns, options.WithTimeTolerance(time.Duration(f.timeTolerance*float64(time.Second))))
	}
	if f.rateTolerance > 0 {
		fns = append(fns, options.WithSampleRateTolerance(f.rateTolerance))
	}
	if f.disableBestVersion {
		fns = append(fns, options.WithBestVersion(false))
	}

	start, err := parseTime(f.startTime)
	if err != nil {
		return options.Options{}, fmt.Errorf("-ts: %w", err)
	}
	end, err := parseTime(f.endTime)
	if err != nil {
		return options.Options{}, fmt.Errorf("-te: %w", err)
	}
	if !start.IsZero() || !end.IsZero() {
		fns = append(fns, options.WithTimeWindow(start, end))
	}

	if f.sourceMatch != "" {
		fns = append(fns, options.WithSourceMatch(f.sourceMatch))
	}
	if f.matchExpr != "" {
		expr, err := resolvePattern(f.matchExpr)
		if err != nil {
			return options.Options{}, fmt.Errorf("-M: %w", err)
		}
		fns = append(fns, options.WithMatchExpr(expr))
	}
	if f.rejectExpr != "" {
		expr, err := resolvePattern(f.rejectExpr)
		if err != nil {
			return options.Options{}, fmt.Errorf("-R: %w", err)
		}
		fns = append(fns, options.WithRejectExpr(expr))
	}

	if f.skipNotData {
		fns = append(fns, options.WithSkipNotData(true))
	}

	if f.selectionFile != "" {
		sel, err := parseSelectionFile(f.selectionFile, log)
		if err != nil {
			return options.Options{}, fmt.Errorf("-s: %w", err)
		}
		fns = append(fns, options.WithSelections(sel))
	}

	if f.outputPath != "" && f.appendOutput != "" {
		return options.Options{}, fmt.Errorf("-o and +o are mutually exclusive")
	}
	switch {
	case f.appendOutput != "":
		fns = append(fns, options.WithOutput(f.appendOutput, true))
	case f.outputPath != "":
		fns = append(fns, options.WithOutput(f.outputPath, false))
	}

	for _, tmpl := range f.archives {
		fns = append(fns, options.WithArchive(tmpl))
	}
	for _, preset := range []struct {
		dir, layout string
	}{
		{f.chanDir, chanLayout}, {f.vchanDir, vchanLayout}, {f.qchanDir, qchanLayout},
		{f.cdayDir, cdayLayout}, {f.sdayDir, sdayLayout}, {f.budDir, budLayout},
		{f.sdsDir, sdsLayout}, {f.cssDir, cssLayout},
	} {
		if preset.dir != "" {
			fns = append(fns, options.WithArchive(presetTemplate(preset.dir, preset.layout)))
		}
	}

	switch {
	case f.pruneSample:
		fns = append(fns, options.WithPruneMode(options.PruneSample))
	case f.pruneRecord:
		fns = append(fns, options.WithPruneMode(options.PruneRecord))
	case f.pruneEdges:
		fns = append(fns, options.WithPruneMode(options.PruneEdgesOnly))
	}

	switch {
	case f.splitDay:
		fns = append(fns, options.WithSplit(options.SplitDay))
	case f.splitHour:
		fns = append(fns, options.WithSplit(options.SplitHour))
	case f.splitMinute:
		fns = append(fns, options.WithSplit(options.SplitMinute))
	}

	if f.quality != "" {
		fns = append(fns, options.WithQualityOverride(f.quality))
	}

	if f.summaryPath != "" || f.summaryPrefix != "" {
		fns = append(fns, options.WithSummary(f.summaryPath, f.summaryPrefix))
	}

	return options.Apply(fns...), nil
}

// resolvePattern resolves a -M/-R pattern that may be "@file"-sourced:
// the pattern is read from the named file and trimmed, rather than taken
// literally from the command line.
func resolvePattern(raw string) (string, error) {
	if !strings.HasPrefix(raw, "@") {
		return raw, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
	if err != nil {
		return "", fmt.Errorf("reading pattern file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// loadConfigFile reads tolerance/archive defaults from a YAML file via
// viper, in addition to the flags themselves (SPEC_FULL.md §2).
func loadConfigFile(path string) ([]options.OptionFunc, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fns []options.OptionFunc
	if v.IsSet("timeTolerance") {
		fns = append(fns, options.WithTimeTolerance(v.GetDuration("timeTolerance")))
	}
	if v.IsSet("sampleRateTolerance") {
		fns = append(fns, options.WithSampleRateTolerance(v.GetFloat64("sampleRateTolerance")))
	}
	if v.IsSet("archiveMaxOpenFiles") && v.IsSet("archiveIdleTimeout") {
		fns = append(fns, options.WithArchiveLimits(v.GetInt("archiveMaxOpenFiles"), v.GetDuration("archiveIdleTimeout")))
	}
	return fns, nil
}
