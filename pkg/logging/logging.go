// Package logging builds the zap.SugaredLogger every dataselect package
// takes as a constructor argument. It adapts iamNilotpal-ignite's
// pkg/logger (referenced from pkg/ignite.NewInstance but never checked
// in) into something concrete: a CLI tool's verbosity knob (-v, -v -v,
// ...) mapped onto zap's level, console-encoded for a terminal audience
// rather than ignite's service-tagged JSON.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger whose level is lowered one notch per
// repeated -v: 0 is Info, 1 is Debug, 2+ also enables stack traces on
// Warn and above (the development config's stack-trace level).
func New(verbosity int) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = verbosity < 2

	switch {
	case verbosity >= 1:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		// zap.NewDevelopmentConfig().Build() only fails on a broken sink
		// or encoder registration; the defaults here register neither.
		panic(err)
	}
	return log.Sugar()
}
